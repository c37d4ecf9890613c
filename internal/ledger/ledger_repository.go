package ledger

import (
	"fmt"

	"github.com/sangphomma/Siriwong-Inventory-App/internal/repository"
	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

// LedgerRepository owns the authoritative stock quantities. Every mutation
// is a single guarded UPDATE (quantity arithmetic happens in SQL, never in
// application code), so concurrent adjustments cannot lose updates and a
// quantity can never be observed negative.
type LedgerRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *LedgerRepository {
	return &LedgerRepository{repository: r}
}

// AdjustAggregate atomically adds delta to the product's aggregate stock.
// The WHERE guard rejects any result below zero; zero rows affected means
// either a missing product or insufficient stock, distinguished by a
// follow-up read inside the same transaction.
func (r *LedgerRepository) AdjustAggregate(tx *goqu.TxDatabase, productID, delta int) (int, error) {
	var newQty int
	query := tx.Update("products").
		Set(goqu.Record{"stock": goqu.L("stock + ?", delta)}).
		Where(goqu.C("id").Eq(productID)).
		Where(goqu.L("stock + ? >= 0", delta)).
		Returning("stock")

	found, err := query.Executor().ScanVal(&newQty)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust aggregate stock for product %d: %w", productID, err)
	}
	if !found {
		var current int
		exists, err := tx.Select("stock").From("products").
			Where(goqu.C("id").Eq(productID)).
			Executor().ScanVal(&current)
		if err != nil {
			return 0, fmt.Errorf("failed to read stock for product %d: %w", productID, err)
		}
		if !exists {
			return 0, fmt.Errorf("product %d: %w", productID, custom_error.ErrNotFound)
		}
		return 0, &custom_error.InsufficientStockError{
			ProductID: productID,
			Requested: -delta,
			Available: current,
		}
	}

	return newQty, nil
}

// AdjustAtLocation applies the same guarded-update contract to a
// (product, location) row. The row is registered at quantity zero on first
// use so a restock to a fresh location does not need a separate call.
func (r *LedgerRepository) AdjustAtLocation(tx *goqu.TxDatabase, productID, locationID, delta int) (int, error) {
	insert := tx.Insert("stock_locations").
		Rows(goqu.Record{
			"product_id":    productID,
			"location_id":   locationID,
			"on_hand_stock": 0,
		}).
		OnConflict(goqu.DoNothing())

	if _, err := insert.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return 0, fmt.Errorf("product %d or location %d: %w", productID, locationID, custom_error.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to register stock row for product %d at location %d: %w", productID, locationID, err)
	}

	var newQty int
	query := tx.Update("stock_locations").
		Set(goqu.Record{"on_hand_stock": goqu.L("on_hand_stock + ?", delta)}).
		Where(goqu.Ex{"product_id": productID, "location_id": locationID}).
		Where(goqu.L("on_hand_stock + ? >= 0", delta)).
		Returning("on_hand_stock")

	found, err := query.Executor().ScanVal(&newQty)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust stock for product %d at location %d: %w", productID, locationID, err)
	}
	if !found {
		var current int
		if _, err := tx.Select("on_hand_stock").From("stock_locations").
			Where(goqu.Ex{"product_id": productID, "location_id": locationID}).
			Executor().ScanVal(&current); err != nil {
			return 0, fmt.Errorf("failed to read stock for product %d at location %d: %w", productID, locationID, err)
		}
		return 0, &custom_error.InsufficientStockError{
			ProductID:  productID,
			LocationID: locationID,
			Requested:  -delta,
			Available:  current,
		}
	}

	return newQty, nil
}

// RegisterStock creates the per-location breakdown row with an initial
// quantity. At most one row may exist per (product, location) pair.
func (r *LedgerRepository) RegisterStock(tx *goqu.TxDatabase, productID, locationID, qty int) (*models.StockLocation, error) {
	stockLocation := models.StockLocation{
		Product:     models.Product{ID: productID},
		Location:    models.Location{ID: locationID},
		OnHandStock: qty,
	}

	query := tx.Insert("stock_locations").
		Rows(goqu.Record{
			"product_id":    productID,
			"location_id":   locationID,
			"on_hand_stock": qty,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&stockLocation.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return nil, custom_error.WrapDBError(
					fmt.Sprintf("product %d is already registered at location %d", productID, locationID),
					string(pqErr.Code))
			case "23503":
				return nil, fmt.Errorf("product %d or location %d: %w", productID, locationID, custom_error.ErrNotFound)
			}
		}
		return nil, fmt.Errorf("failed to register stock location: %w", err)
	}

	return &stockLocation, nil
}

func (r *LedgerRepository) GetAggregate(productID int) (int, error) {
	var stock int
	found, err := r.repository.GoquDBWrapper.Select("stock").From("products").
		Where(goqu.C("id").Eq(productID)).
		Executor().ScanVal(&stock)
	if err != nil {
		return 0, fmt.Errorf("failed to read aggregate stock: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("product %d: %w", productID, custom_error.ErrNotFound)
	}

	return stock, nil
}

func (r *LedgerRepository) GetAtLocation(productID, locationID int) (int, error) {
	var stock int
	found, err := r.repository.GoquDBWrapper.Select("on_hand_stock").From("stock_locations").
		Where(goqu.Ex{"product_id": productID, "location_id": locationID}).
		Executor().ScanVal(&stock)
	if err != nil {
		return 0, fmt.Errorf("failed to read location stock: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("product %d at location %d: %w", productID, locationID, custom_error.ErrNotFound)
	}

	return stock, nil
}

func (r *LedgerRepository) ListLocationStock(productID int) ([]models.StockLocation, error) {
	var flatRows []models.FlatStockLocation
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("sl.id").As("id"),
			goqu.I("sl.product_id").As("product_id"),
			goqu.I("p.name").As("product_name"),
			goqu.I("sl.location_id").As("location_id"),
			goqu.I("l.name").As("location_name"),
			goqu.I("sl.on_hand_stock").As("on_hand_stock"),
		).
		From(goqu.T("stock_locations").As("sl")).
		Join(goqu.T("products").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("sl.product_id")})).
		Join(goqu.T("locations").As("l"), goqu.On(goqu.Ex{"l.id": goqu.I("sl.location_id")})).
		Where(goqu.Ex{"sl.product_id": productID}).
		Order(goqu.I("l.name").Asc())

	if err := query.Executor().ScanStructs(&flatRows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock locations: %w", err)
	}

	stockLocations := make([]models.StockLocation, 0, len(flatRows))
	for i := range flatRows {
		stockLocations = append(stockLocations, flatRows[i].TransformToStockLocation())
	}

	return stockLocations, nil
}

// StockDiscrepancies compares the aggregate counter against the summed
// per-location breakdown. Rows only appear for products that have at least
// one registered location and whose two facets disagree.
func (r *LedgerRepository) StockDiscrepancies() ([]models.StockDiscrepancy, error) {
	var discrepancies []models.StockDiscrepancy
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.id").As("product_id"),
			goqu.I("p.name").As("product_name"),
			goqu.I("p.stock").As("aggregate_stock"),
			goqu.SUM(goqu.I("sl.on_hand_stock")).As("location_stock"),
		).
		From(goqu.T("products").As("p")).
		Join(goqu.T("stock_locations").As("sl"), goqu.On(goqu.Ex{"sl.product_id": goqu.I("p.id")})).
		GroupBy(goqu.I("p.id"), goqu.I("p.name"), goqu.I("p.stock")).
		Having(goqu.L("SUM(sl.on_hand_stock) != p.stock"))

	if err := query.Executor().ScanStructs(&discrepancies); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock discrepancies: %w", err)
	}

	return discrepancies, nil
}
