package reaper

import (
	"errors"
	"testing"
	"time"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeStore filters its fixture by the cutoff the reaper computes, the
// same contract the SQL query implements.
type fakeStore struct {
	requests  []models.Request
	failIDs   map[int]bool
	deletedID []int
	listErr   error
}

func (f *fakeStore) ListStalePending(cutoff time.Time) ([]models.Request, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}

	var stale []models.Request
	for _, req := range f.requests {
		if req.Status == models.RequestStatusPending && req.CreatedAt.Before(cutoff) {
			stale = append(stale, req)
		}
	}
	return stale, nil
}

func (f *fakeStore) DeleteRequest(id int) error {
	if f.failIDs[id] {
		return errors.New("delete failed")
	}
	f.deletedID = append(f.deletedID, id)
	return nil
}

func newTestReaper(store Store, now time.Time) *Reaper {
	r := New(store, zap.NewNop())
	r.now = func() time.Time { return now }
	return r
}

func TestRunDeletesOnlyRequestsOlderThanCutoff(t *testing.T) {
	now := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	store := &fakeStore{
		requests: []models.Request{
			// 3 days and 1 second old: reaped
			{ID: 1, Status: models.RequestStatusPending, CreatedAt: now.Add(-72*time.Hour - time.Second)},
			// 2 days 23 hours old: kept
			{ID: 2, Status: models.RequestStatusPending, CreatedAt: now.Add(-71 * time.Hour)},
			// old but already terminal: never touched
			{ID: 3, Status: models.RequestStatusApproved, CreatedAt: now.Add(-120 * time.Hour)},
		},
	}

	deleted, err := newTestReaper(store, now).Run(3)

	assert.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Equal(t, []int{1}, store.deletedID)
}

func TestRunContinuesAfterFailedDeletion(t *testing.T) {
	now := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	store := &fakeStore{
		requests: []models.Request{
			{ID: 1, Status: models.RequestStatusPending, CreatedAt: now.Add(-96 * time.Hour)},
			{ID: 2, Status: models.RequestStatusPending, CreatedAt: now.Add(-96 * time.Hour)},
			{ID: 3, Status: models.RequestStatusPending, CreatedAt: now.Add(-96 * time.Hour)},
		},
		failIDs: map[int]bool{2: true},
	}

	deleted, err := newTestReaper(store, now).Run(3)

	assert.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.Equal(t, []int{1, 3}, store.deletedID)
}

func TestRunRejectsNonPositiveAge(t *testing.T) {
	store := &fakeStore{}

	deleted, err := newTestReaper(store, time.Now()).Run(0)

	assert.Equal(t, 0, deleted)
	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestRunSurfacesListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("db down")}

	deleted, err := newTestReaper(store, time.Now()).Run(3)

	assert.Error(t, err)
	assert.Equal(t, 0, deleted)
}
