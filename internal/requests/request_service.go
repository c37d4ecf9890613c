package requests

import (
	"strings"

	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type RequestStore interface {
	Insert(tx *goqu.TxDatabase, req *models.Request) error
	GetRequest(id int) (*models.Request, error)
	GetRequestTx(tx *goqu.TxDatabase, id int) (*models.Request, error)
	ClaimPending(tx *goqu.TxDatabase, id int, newStatus string, noteSuffix *string) (bool, error)
}

// LedgerStore is the single serialization point for stock mutation; the
// approval batch goes through it item by item inside one transaction.
type LedgerStore interface {
	AdjustAggregate(tx *goqu.TxDatabase, productID, delta int) (int, error)
}

type ProductStore interface {
	MissingProducts(ids []int) ([]int, error)
}

type txRunner interface {
	WithTransaction(fn func(tx *goqu.TxDatabase) error) error
	WithTransactionRetry(fn func(tx *goqu.TxDatabase) error) error
}

// RequestService owns the request lifecycle: creation while pending and
// the single terminal transition that mutates the ledger.
type RequestService struct {
	r        txRunner
	requests RequestStore
	ledger   LedgerStore
	products ProductStore
	log      *zap.Logger
}

func NewService(r txRunner, requests RequestStore, ledger LedgerStore, products ProductStore, log *zap.Logger) *RequestService {
	return &RequestService{
		r:        r,
		requests: requests,
		ledger:   ledger,
		products: products,
		log:      log,
	}
}

// CreateRequest validates the slip and persists it as pending. Stock is
// not reserved; availability is only checked at approval time.
func (s *RequestService) CreateRequest(payload CreateRequestPayload) (*models.Request, error) {
	productIDs := make([]int, 0, len(payload.Items))
	for _, item := range payload.Items {
		productIDs = append(productIDs, item.ProductID)
	}

	missing, err := s.products.MissingProducts(productIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, &custom_error.ValidationError{
			Field:  "items",
			Reason: "unknown products referenced",
		}
	}

	request := models.Request{
		Kind:        payload.Kind,
		JobNo:       payload.JobNo,
		RequestedBy: payload.RequestedBy,
		Site:        models.Site{ID: payload.SiteID},
		Note:        payload.Note,
	}
	for _, item := range payload.Items {
		request.Items = append(request.Items, models.RequestItem{
			Product:      models.Product{ID: item.ProductID},
			QtyRequested: item.QtyRequested,
			Remark:       item.Remark,
		})
	}

	err = s.r.WithTransaction(func(tx *goqu.TxDatabase) error {
		return s.requests.Insert(tx, &request)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("created request",
		zap.Int("request_id", request.ID),
		zap.String("kind", request.Kind),
		zap.String("job_no", request.JobNo),
		zap.Int("items", len(request.Items)))

	return &request, nil
}

// Approve executes the pending -> approved transition. The status claim
// and every per-item stock adjustment run in one transaction: the first
// insufficient item aborts the whole batch and the request stays pending.
func (s *RequestService) Approve(requestID int) (*models.Request, error) {
	var approved *models.Request

	err := s.r.WithTransactionRetry(func(tx *goqu.TxDatabase) error {
		claimed, err := s.requests.ClaimPending(tx, requestID, models.RequestStatusApproved, nil)
		if err != nil {
			return err
		}
		if !claimed {
			if _, err := s.requests.GetRequest(requestID); err != nil {
				return err
			}
			return custom_error.ErrInvalidState
		}

		request, err := s.requests.GetRequestTx(tx, requestID)
		if err != nil {
			return err
		}

		for _, item := range request.Items {
			delta := item.QtyRequested
			if request.Kind == models.RequestKindWithdrawal {
				delta = -delta
			}
			if _, err := s.ledger.AdjustAggregate(tx, item.Product.ID, delta); err != nil {
				return err
			}
		}

		request.Status = models.RequestStatusApproved
		approved = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("approved request",
		zap.Int("request_id", approved.ID),
		zap.String("kind", approved.Kind),
		zap.Int("items", len(approved.Items)))

	return approved, nil
}

// Reject moves the request to its terminal rejected state. No ledger
// interaction; the mandatory remark is appended to the audit note.
func (s *RequestService) Reject(requestID int, remark string) (*models.Request, error) {
	if strings.TrimSpace(remark) == "" {
		return nil, &custom_error.ValidationError{Field: "remark", Reason: "a rejection remark is required"}
	}

	noteSuffix := "\n[rejected] " + remark
	var rejected *models.Request

	err := s.r.WithTransactionRetry(func(tx *goqu.TxDatabase) error {
		claimed, err := s.requests.ClaimPending(tx, requestID, models.RequestStatusRejected, &noteSuffix)
		if err != nil {
			return err
		}
		if !claimed {
			if _, err := s.requests.GetRequest(requestID); err != nil {
				return err
			}
			return custom_error.ErrInvalidState
		}

		rejected, err = s.requests.GetRequestTx(tx, requestID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("rejected request",
		zap.Int("request_id", rejected.ID),
		zap.String("remark", remark))

	return rejected, nil
}
