package requests

import (
	"strings"
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

type MockRequestStore struct {
	mock.Mock
}

func (m *MockRequestStore) Insert(tx *goqu.TxDatabase, req *models.Request) error {
	args := m.Called(tx, req)
	return args.Error(0)
}

func (m *MockRequestStore) GetRequest(id int) (*models.Request, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestStore) GetRequestTx(tx *goqu.TxDatabase, id int) (*models.Request, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func (m *MockRequestStore) ClaimPending(tx *goqu.TxDatabase, id int, newStatus string, noteSuffix *string) (bool, error) {
	args := m.Called(tx, id, newStatus, noteSuffix)
	return args.Bool(0), args.Error(1)
}

type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) AdjustAggregate(tx *goqu.TxDatabase, productID, delta int) (int, error) {
	args := m.Called(tx, productID, delta)
	return args.Int(0), args.Error(1)
}

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) MissingProducts(ids []int) ([]int, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func newTestService() (*RequestService, *MockRequestStore, *MockLedgerStore, *MockProductStore) {
	requestStore := new(MockRequestStore)
	ledgerStore := new(MockLedgerStore)
	productStore := new(MockProductStore)
	service := NewService(&stubTxRunner{}, requestStore, ledgerStore, productStore, zap.NewNop())
	return service, requestStore, ledgerStore, productStore
}

func pendingWithdrawal(id int, items ...models.RequestItem) *models.Request {
	return &models.Request{
		ID:     id,
		Kind:   models.RequestKindWithdrawal,
		JobNo:  "JOB-7",
		Status: models.RequestStatusPending,
		Items:  items,
	}
}

func TestApproveWithdrawalDeductsEachItem(t *testing.T) {
	service, requestStore, ledgerStore, _ := newTestService()

	request := pendingWithdrawal(7,
		models.RequestItem{ID: 1, Product: models.Product{ID: 100}, QtyRequested: 4},
		models.RequestItem{ID: 2, Product: models.Product{ID: 200}, QtyRequested: 2},
	)

	requestStore.On("ClaimPending", mock.Anything, 7, models.RequestStatusApproved, (*string)(nil)).Return(true, nil).Once()
	requestStore.On("GetRequestTx", mock.Anything, 7).Return(request, nil).Once()
	ledgerStore.On("AdjustAggregate", mock.Anything, 100, -4).Return(6, nil).Once()
	ledgerStore.On("AdjustAggregate", mock.Anything, 200, -2).Return(3, nil).Once()

	approved, err := service.Approve(7)

	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, approved.Status)
	requestStore.AssertExpectations(t)
	ledgerStore.AssertExpectations(t)
}

func TestApproveAbortsBatchOnInsufficientStock(t *testing.T) {
	service, requestStore, ledgerStore, _ := newTestService()

	request := pendingWithdrawal(7,
		models.RequestItem{ID: 1, Product: models.Product{ID: 100}, QtyRequested: 4},
		models.RequestItem{ID: 2, Product: models.Product{ID: 200}, QtyRequested: 20},
	)

	requestStore.On("ClaimPending", mock.Anything, 7, models.RequestStatusApproved, (*string)(nil)).Return(true, nil).Once()
	requestStore.On("GetRequestTx", mock.Anything, 7).Return(request, nil).Once()
	ledgerStore.On("AdjustAggregate", mock.Anything, 100, -4).Return(6, nil).Once()
	ledgerStore.On("AdjustAggregate", mock.Anything, 200, -20).
		Return(0, &custom_error.InsufficientStockError{ProductID: 200, Requested: 20, Available: 5}).Once()

	approved, err := service.Approve(7)

	assert.Nil(t, approved)
	var insufficientErr *custom_error.InsufficientStockError
	assert.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 200, insufficientErr.ProductID)
	ledgerStore.AssertExpectations(t)
}

func TestApproveTwiceReturnsInvalidState(t *testing.T) {
	service, requestStore, ledgerStore, _ := newTestService()

	alreadyApproved := pendingWithdrawal(7)
	alreadyApproved.Status = models.RequestStatusApproved

	requestStore.On("ClaimPending", mock.Anything, 7, models.RequestStatusApproved, (*string)(nil)).Return(false, nil).Once()
	requestStore.On("GetRequest", 7).Return(alreadyApproved, nil).Once()

	approved, err := service.Approve(7)

	assert.Nil(t, approved)
	assert.ErrorIs(t, err, custom_error.ErrInvalidState)
	ledgerStore.AssertNotCalled(t, "AdjustAggregate", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveMissingRequestReturnsNotFound(t *testing.T) {
	service, requestStore, _, _ := newTestService()

	requestStore.On("ClaimPending", mock.Anything, 99, models.RequestStatusApproved, (*string)(nil)).Return(false, nil).Once()
	requestStore.On("GetRequest", 99).Return(nil, custom_error.ErrNotFound).Once()

	approved, err := service.Approve(99)

	assert.Nil(t, approved)
	assert.ErrorIs(t, err, custom_error.ErrNotFound)
}

func TestApproveReturnIncrementsStock(t *testing.T) {
	service, requestStore, ledgerStore, _ := newTestService()

	request := &models.Request{
		ID:     8,
		Kind:   models.RequestKindReturn,
		Status: models.RequestStatusPending,
		Items: []models.RequestItem{
			{ID: 1, Product: models.Product{ID: 100}, QtyRequested: 3},
		},
	}

	requestStore.On("ClaimPending", mock.Anything, 8, models.RequestStatusApproved, (*string)(nil)).Return(true, nil).Once()
	requestStore.On("GetRequestTx", mock.Anything, 8).Return(request, nil).Once()
	ledgerStore.On("AdjustAggregate", mock.Anything, 100, 3).Return(13, nil).Once()

	approved, err := service.Approve(8)

	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, approved.Status)
	ledgerStore.AssertExpectations(t)
}

func TestRejectRequiresRemark(t *testing.T) {
	service, requestStore, _, _ := newTestService()

	rejected, err := service.Reject(7, "   ")

	assert.Nil(t, rejected)
	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	requestStore.AssertNotCalled(t, "ClaimPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectAppendsRemarkToNote(t *testing.T) {
	service, requestStore, ledgerStore, _ := newTestService()

	request := pendingWithdrawal(7)
	request.Status = models.RequestStatusRejected

	requestStore.On("ClaimPending", mock.Anything, 7, models.RequestStatusRejected,
		mock.MatchedBy(func(suffix *string) bool {
			return suffix != nil && strings.Contains(*suffix, "[rejected] wrong job number")
		})).Return(true, nil).Once()
	requestStore.On("GetRequestTx", mock.Anything, 7).Return(request, nil).Once()

	rejected, err := service.Reject(7, "wrong job number")

	assert.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, rejected.Status)
	requestStore.AssertExpectations(t)
	ledgerStore.AssertNotCalled(t, "AdjustAggregate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectTerminalRequestReturnsInvalidState(t *testing.T) {
	service, requestStore, _, _ := newTestService()

	terminal := pendingWithdrawal(7)
	terminal.Status = models.RequestStatusRejected

	requestStore.On("ClaimPending", mock.Anything, 7, models.RequestStatusRejected, mock.Anything).Return(false, nil).Once()
	requestStore.On("GetRequest", 7).Return(terminal, nil).Once()

	rejected, err := service.Reject(7, "duplicate")

	assert.Nil(t, rejected)
	assert.ErrorIs(t, err, custom_error.ErrInvalidState)
}

func TestCreateRequestRejectsUnknownProducts(t *testing.T) {
	service, requestStore, _, productStore := newTestService()

	productStore.On("MissingProducts", []int{100, 42}).Return([]int{42}, nil).Once()

	created, err := service.CreateRequest(CreateRequestPayload{
		Kind:        models.RequestKindWithdrawal,
		JobNo:       "JOB-9",
		RequestedBy: "somchai",
		SiteID:      1,
		Items: []RequestItemPayload{
			{ProductID: 100, QtyRequested: 2},
			{ProductID: 42, QtyRequested: 1},
		},
	})

	assert.Nil(t, created)
	var validationErr *custom_error.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	requestStore.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateRequestPersistsPendingSlip(t *testing.T) {
	service, requestStore, _, productStore := newTestService()

	productStore.On("MissingProducts", []int{100}).Return(nil, nil).Once()
	requestStore.On("Insert", mock.Anything, mock.MatchedBy(func(req *models.Request) bool {
		return req.Kind == models.RequestKindReturn &&
			len(req.Items) == 1 &&
			req.Items[0].QtyRequested == 3
	})).Return(nil).Once()

	created, err := service.CreateRequest(CreateRequestPayload{
		Kind:        models.RequestKindReturn,
		JobNo:       "JOB-10",
		RequestedBy: "somchai",
		SiteID:      2,
		Note:        "leftover pipes",
		Items: []RequestItemPayload{
			{ProductID: 100, QtyRequested: 3},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "JOB-10", created.JobNo)
	requestStore.AssertExpectations(t)
	productStore.AssertExpectations(t)
}
