package locations

import (
	"fmt"

	"github.com/sangphomma/Siriwong-Inventory-App/internal/repository"
	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type LocationRepository struct {
	Repository *repository.Repository
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{Repository: r}
}

func (r *LocationRepository) GetLocations() ([]models.Location, error) {
	var locations = []models.Location{}
	query := r.Repository.GoquDBWrapper.Select("id", "name", "details").From("locations").Order(goqu.C("name").Asc())
	if err := query.Executor().ScanStructs(&locations); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return locations, nil
}

// GetLocationStock lists every product with a breakdown row at this
// location, including rows the ledger zeroed out by transfers.
func (r *LocationRepository) GetLocationStock(locationID int) ([]models.StockLocation, error) {
	var flatRows []models.FlatStockLocation
	query := r.Repository.GoquDBWrapper.
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
		Where(goqu.Ex{"sl.location_id": locationID}).
		Order(goqu.I("p.name").Asc())

	if err := query.Executor().ScanStructs(&flatRows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for location stock: %w", err)
	}

	stock := make([]models.StockLocation, 0, len(flatRows))
	for i := range flatRows {
		stock = append(stock, flatRows[i].TransformToStockLocation())
	}

	return stock, nil
}

func (r *LocationRepository) PersistLocation(location *models.Location) error {
	query := r.Repository.GoquDBWrapper.Insert("locations").
		Rows(goqu.Record{
			"name":    location.Name,
			"details": location.Details,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&location.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("for location "+location.Name, string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert location record: %w", err)
	}

	return nil
}

func (r *LocationRepository) UpdateLocation(locationID int, req UpdateLocationRequest) (models.Location, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if len(updates) == 0 {
		return models.Location{}, &custom_error.ValidationError{Field: "body", Reason: "no fields to update"}
	}

	query := r.Repository.GoquDBWrapper.
		Update("locations").
		Set(updates).
		Where(goqu.Ex{"id": locationID}).
		Returning("id", "name", "details")

	var loc models.Location
	found, err := query.Executor().ScanStruct(&loc)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to update location: %w", err)
	}
	if !found {
		return models.Location{}, fmt.Errorf("location %d: %w", locationID, custom_error.ErrNotFound)
	}

	return loc, nil
}

func (r *LocationRepository) RemoveLocation(locationID int) error {
	result, err := r.Repository.GoquDBWrapper.Delete("locations").Where(goqu.Ex{"id": locationID}).Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(fmt.Sprintf("for location %d", locationID), string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("location %d: %w", locationID, custom_error.ErrNotFound)
	}

	return nil
}
