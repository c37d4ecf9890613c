package custom_error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestInsufficientStockErrorNamesTheProduct(t *testing.T) {
	err := &InsufficientStockError{ProductID: 200, Requested: 20, Available: 5}
	assert.Contains(t, err.Error(), "product 200")
	assert.Contains(t, err.Error(), "requested 20")

	atLocation := &InsufficientStockError{ProductID: 200, LocationID: 3, Requested: 5, Available: 2}
	assert.Contains(t, atLocation.Error(), "location 3")
}

func TestWrapDBErrorMapsPostgresCodes(t *testing.T) {
	err := WrapDBError("for product x", "23505")
	_, ok := err.(*UniqueViolationError)
	assert.True(t, ok)

	err = WrapDBError("for location 1", "23503")
	_, ok = err.(*ForeignKeyViolationError)
	assert.True(t, ok)

	err = WrapDBError("boom", "99999")
	assert.Contains(t, err.Error(), "99999")
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40001"}))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))
	assert.True(t, IsSerializationFailure(fmt.Errorf("tx failed: %w", &pq.Error{Code: "40001"})))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, IsSerializationFailure(errors.New("plain error")))
}
