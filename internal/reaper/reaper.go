package reaper

import (
	"time"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"go.uber.org/zap"
)

// DefaultMaxAgeDays is how long a withdrawal or return slip may sit
// pending before the sweep deletes it.
const DefaultMaxAgeDays = 3

type Store interface {
	ListStalePending(cutoff time.Time) ([]models.Request, error)
	DeleteRequest(id int) error
}

// Reaper deletes requests still pending after a fixed age. Pending
// requests have never touched the ledger, so the sweep has no stock side
// effects and is safe to run unconditionally. It is driven by an external
// scheduler (the reap subcommand or the admin endpoint), never by its own
// timer.
type Reaper struct {
	store Store
	now   func() time.Time
	log   *zap.Logger
}

func New(store Store, log *zap.Logger) *Reaper {
	return &Reaper{store: store, now: time.Now, log: log}
}

// Run deletes all pending requests older than maxAgeDays and returns how
// many were removed. A failed deletion is logged and skipped; the sweep
// carries on with the rest.
func (r *Reaper) Run(maxAgeDays int) (int, error) {
	if maxAgeDays < 1 {
		return 0, &custom_error.ValidationError{Field: "maxAgeDays", Reason: "must be at least 1"}
	}

	cutoff := r.now().Add(-time.Duration(maxAgeDays) * 24 * time.Hour)
	stale, err := r.store.ListStalePending(cutoff)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, request := range stale {
		if err := r.store.DeleteRequest(request.ID); err != nil {
			r.log.Warn("failed to delete stale request",
				zap.Int("request_id", request.ID),
				zap.Error(err))
			continue
		}
		deleted++
	}

	r.log.Info("stale request sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int("matched", len(stale)),
		zap.Int("deleted", deleted))

	return deleted, nil
}
