package ledger

import (
	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type Store interface {
	AdjustAggregate(tx *goqu.TxDatabase, productID, delta int) (int, error)
	AdjustAtLocation(tx *goqu.TxDatabase, productID, locationID, delta int) (int, error)
	RegisterStock(tx *goqu.TxDatabase, productID, locationID, qty int) (*models.StockLocation, error)
	GetAggregate(productID int) (int, error)
	GetAtLocation(productID, locationID int) (int, error)
	ListLocationStock(productID int) ([]models.StockLocation, error)
	StockDiscrepancies() ([]models.StockDiscrepancy, error)
}

type txRunner interface {
	WithTransaction(fn func(tx *goqu.TxDatabase) error) error
	WithTransactionRetry(fn func(tx *goqu.TxDatabase) error) error
}

type LedgerService struct {
	r     txRunner
	store Store
	log   *zap.Logger
}

func NewService(r txRunner, store Store, log *zap.Logger) *LedgerService {
	return &LedgerService{r: r, store: store, log: log}
}

// RegisterStockAtLocation creates the per-location breakdown row for a
// product. The initial quantity records where already-counted aggregate
// stock physically sits, so the aggregate counter is left untouched.
func (s *LedgerService) RegisterStockAtLocation(productID, locationID, initialQty int) (*models.StockLocation, error) {
	if initialQty < 0 {
		return nil, &custom_error.ValidationError{Field: "on_hand_stock", Reason: "must not be negative"}
	}

	var stockLocation *models.StockLocation
	err := s.r.WithTransactionRetry(func(tx *goqu.TxDatabase) error {
		var err error
		stockLocation, err = s.store.RegisterStock(tx, productID, locationID, initialQty)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("registered stock location",
		zap.Int("product_id", productID),
		zap.Int("location_id", locationID),
		zap.Int("on_hand_stock", initialQty))

	return stockLocation, nil
}

// TransferStock moves qty between two locations as one atomic batch: a
// guarded decrement at the source and an increment at the destination
// commit together or not at all. The aggregate counter is unchanged.
func (s *LedgerService) TransferStock(productID, fromLocationID, toLocationID, qty int) error {
	if qty < 1 {
		return &custom_error.ValidationError{Field: "qty", Reason: "must be at least 1"}
	}
	if fromLocationID == toLocationID {
		return &custom_error.ValidationError{Field: "to_location_id", Reason: "source and destination must differ"}
	}

	err := s.r.WithTransactionRetry(func(tx *goqu.TxDatabase) error {
		if _, err := s.store.AdjustAtLocation(tx, productID, fromLocationID, -qty); err != nil {
			return err
		}
		if _, err := s.store.AdjustAtLocation(tx, productID, toLocationID, qty); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("transferred stock",
		zap.Int("product_id", productID),
		zap.Int("from_location_id", fromLocationID),
		zap.Int("to_location_id", toLocationID),
		zap.Int("qty", qty))

	return nil
}

// Restock adds newly delivered stock at a location. Both facets move
// together: the location row and the aggregate counter are incremented in
// the same transaction.
func (s *LedgerService) Restock(productID, locationID, qty int) (int, error) {
	if qty < 1 {
		return 0, &custom_error.ValidationError{Field: "qty", Reason: "must be at least 1"}
	}

	var newAggregate int
	err := s.r.WithTransactionRetry(func(tx *goqu.TxDatabase) error {
		if _, err := s.store.AdjustAtLocation(tx, productID, locationID, qty); err != nil {
			return err
		}
		var err error
		newAggregate, err = s.store.AdjustAggregate(tx, productID, qty)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("restocked product",
		zap.Int("product_id", productID),
		zap.Int("location_id", locationID),
		zap.Int("qty", qty),
		zap.Int("new_stock", newAggregate))

	return newAggregate, nil
}

func (s *LedgerService) GetAggregate(productID int) (int, error) {
	return s.store.GetAggregate(productID)
}

func (s *LedgerService) GetAtLocation(productID, locationID int) (int, error) {
	return s.store.GetAtLocation(productID, locationID)
}

func (s *LedgerService) ListLocationStock(productID int) ([]models.StockLocation, error) {
	return s.store.ListLocationStock(productID)
}

func (s *LedgerService) StockDiscrepancies() ([]models.StockDiscrepancy, error) {
	return s.store.StockDiscrepancies()
}
