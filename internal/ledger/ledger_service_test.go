package ledger

import (
	"testing"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type stubTxRunner struct{}

func (s *stubTxRunner) WithTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

func (s *stubTxRunner) WithTransactionRetry(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) AdjustAggregate(tx *goqu.TxDatabase, productID, delta int) (int, error) {
	args := m.Called(tx, productID, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) AdjustAtLocation(tx *goqu.TxDatabase, productID, locationID, delta int) (int, error) {
	args := m.Called(tx, productID, locationID, delta)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) RegisterStock(tx *goqu.TxDatabase, productID, locationID, qty int) (*models.StockLocation, error) {
	args := m.Called(tx, productID, locationID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockLocation), args.Error(1)
}

func (m *MockStore) GetAggregate(productID int) (int, error) {
	args := m.Called(productID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) GetAtLocation(productID, locationID int) (int, error) {
	args := m.Called(productID, locationID)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) ListLocationStock(productID int) ([]models.StockLocation, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StockLocation), args.Error(1)
}

func (m *MockStore) StockDiscrepancies() ([]models.StockDiscrepancy, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StockDiscrepancy), args.Error(1)
}

func newTestService() (*LedgerService, *MockStore) {
	store := new(MockStore)
	return NewService(&stubTxRunner{}, store, zap.NewNop()), store
}

func TestTransferStockMovesBetweenLocations(t *testing.T) {
	service, store := newTestService()

	store.On("AdjustAtLocation", mock.Anything, 100, 1, -5).Return(0, nil).Once()
	store.On("AdjustAtLocation", mock.Anything, 100, 2, 5).Return(5, nil).Once()

	err := service.TransferStock(100, 1, 2, 5)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTransferStockRejectsInvalidInput(t *testing.T) {
	service, store := newTestService()

	var validationErr *custom_error.ValidationError

	err := service.TransferStock(100, 1, 2, 0)
	assert.ErrorAs(t, err, &validationErr)

	err = service.TransferStock(100, 1, 1, 5)
	assert.ErrorAs(t, err, &validationErr)

	store.AssertNotCalled(t, "AdjustAtLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransferStockAbortsWhenSourceInsufficient(t *testing.T) {
	service, store := newTestService()

	store.On("AdjustAtLocation", mock.Anything, 100, 1, -5).
		Return(0, &custom_error.InsufficientStockError{ProductID: 100, LocationID: 1, Requested: 5, Available: 2}).Once()

	err := service.TransferStock(100, 1, 2, 5)

	var insufficientErr *custom_error.InsufficientStockError
	assert.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 1, insufficientErr.LocationID)
	store.AssertNumberOfCalls(t, "AdjustAtLocation", 1)
}

func TestRestockUpdatesBothFacets(t *testing.T) {
	service, store := newTestService()

	store.On("AdjustAtLocation", mock.Anything, 100, 3, 10).Return(10, nil).Once()
	store.On("AdjustAggregate", mock.Anything, 100, 10).Return(30, nil).Once()

	newStock, err := service.Restock(100, 3, 10)

	assert.NoError(t, err)
	assert.Equal(t, 30, newStock)
	store.AssertExpectations(t)
}

func TestRestockRejectsNonPositiveQty(t *testing.T) {
	service, store := newTestService()

	_, err := service.Restock(100, 3, 0)

	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	store.AssertNotCalled(t, "AdjustAtLocation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterStockRejectsNegativeQty(t *testing.T) {
	service, store := newTestService()

	stockLocation, err := service.RegisterStockAtLocation(100, 1, -1)

	assert.Nil(t, stockLocation)
	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	store.AssertNotCalled(t, "RegisterStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterStockCreatesBreakdownRow(t *testing.T) {
	service, store := newTestService()

	expected := &models.StockLocation{
		ID:          12,
		Product:     models.Product{ID: 100},
		Location:    models.Location{ID: 1},
		OnHandStock: 5,
	}
	store.On("RegisterStock", mock.Anything, 100, 1, 5).Return(expected, nil).Once()

	stockLocation, err := service.RegisterStockAtLocation(100, 1, 5)

	assert.NoError(t, err)
	assert.Equal(t, 5, stockLocation.OnHandStock)
	store.AssertExpectations(t)
}
