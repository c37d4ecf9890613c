package catalog

import (
	"fmt"

	"github.com/sangphomma/Siriwong-Inventory-App/internal/repository"
	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ProductRepository struct {
	repository *repository.Repository
}

func NewProductRepository(r *repository.Repository) *ProductRepository {
	return &ProductRepository{repository: r}
}

func (r *ProductRepository) ListProducts(query ListProductsQuery) ([]models.Product, error) {
	sel := r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.id").As("id"),
			goqu.I("p.name").As("name"),
			goqu.I("p.unit").As("unit"),
			goqu.I("p.stock").As("stock"),
			goqu.I("p.category_id").As("category_id"),
			goqu.I("c.name").As("category_name"),
		).
		From(goqu.T("products").As("p")).
		LeftJoin(goqu.T("product_categories").As("c"), goqu.On(goqu.Ex{"c.id": goqu.I("p.category_id")})).
		Order(goqu.I("p.name").Asc())

	if query.Search != "" {
		sel = sel.Where(goqu.I("p.name").ILike("%" + query.Search + "%"))
	}
	if query.CategoryID != 0 {
		sel = sel.Where(goqu.Ex{"p.category_id": query.CategoryID})
	}

	var flatProducts []models.FlatProduct
	if err := sel.Executor().ScanStructs(&flatProducts); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for products: %w", err)
	}

	products := make([]models.Product, 0, len(flatProducts))
	for i := range flatProducts {
		products = append(products, flatProducts[i].TransformToProduct())
	}

	return products, nil
}

func (r *ProductRepository) GetProduct(id int) (*models.Product, error) {
	var flat models.FlatProduct
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("p.id").As("id"),
			goqu.I("p.name").As("name"),
			goqu.I("p.unit").As("unit"),
			goqu.I("p.stock").As("stock"),
			goqu.I("p.category_id").As("category_id"),
			goqu.I("c.name").As("category_name"),
		).
		From(goqu.T("products").As("p")).
		LeftJoin(goqu.T("product_categories").As("c"), goqu.On(goqu.Ex{"c.id": goqu.I("p.category_id")})).
		Where(goqu.Ex{"p.id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for product: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("product %d: %w", id, custom_error.ErrNotFound)
	}

	product := flat.TransformToProduct()
	return &product, nil
}

// PersistProduct inserts the catalog entry. The stock counter starts at
// zero; only ledger operations may move it afterwards.
func (r *ProductRepository) PersistProduct(req ProductPayload) (*models.Product, error) {
	record := goqu.Record{
		"name":  req.Name,
		"unit":  req.Unit,
		"stock": 0,
	}
	if req.CategoryID != 0 {
		record["category_id"] = req.CategoryID
	}

	product := models.Product{
		Name:     req.Name,
		Unit:     req.Unit,
		Category: models.ProductCategory{ID: req.CategoryID},
	}

	query := r.repository.GoquDBWrapper.Insert("products").Rows(record).Returning("id")
	if _, err := query.Executor().ScanVal(&product.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("for product "+req.Name, string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert product record: %w", err)
	}

	return &product, nil
}

func (r *ProductRepository) UpdateProduct(id int, req UpdateProductPayload) (*models.Product, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if len(updates) == 0 {
		return nil, &custom_error.ValidationError{Field: "body", Reason: "no fields to update"}
	}

	result, err := r.repository.GoquDBWrapper.Update("products").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("product %d: %w", id, custom_error.ErrNotFound)
	}

	return r.GetProduct(id)
}

// RemoveProduct deletes a catalog entry unless an open request still
// references it.
func (r *ProductRepository) RemoveProduct(id int) error {
	var openCount int
	_, err := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("*")).
		From(goqu.T("request_items").As("i")).
		Join(goqu.T("requests").As("r"), goqu.On(goqu.Ex{"r.id": goqu.I("i.request_id")})).
		Where(goqu.Ex{"i.product_id": id, "r.status": models.RequestStatusPending}).
		Executor().ScanVal(&openCount)
	if err != nil {
		return fmt.Errorf("failed to check open requests for product %d: %w", id, err)
	}
	if openCount > 0 {
		return &custom_error.ValidationError{
			Field:  "id",
			Reason: fmt.Sprintf("product is referenced by %d pending request(s)", openCount),
		}
	}

	result, err := r.repository.GoquDBWrapper.Delete("products").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(fmt.Sprintf("for product %d", id), string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, custom_error.ErrNotFound)
	}

	return nil
}

// MissingProducts returns the subset of ids with no catalog entry.
func (r *ProductRepository) MissingProducts(ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var existing []int
	err := r.repository.GoquDBWrapper.Select("id").From("products").
		Where(goqu.C("id").In(ids)).
		Executor().ScanVals(&existing)
	if err != nil {
		return nil, fmt.Errorf("failed to check product existence: %w", err)
	}

	known := make(map[int]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	var missing []int
	for _, id := range ids {
		if !known[id] {
			missing = append(missing, id)
		}
	}

	return missing, nil
}

func (r *ProductRepository) ListCategories() ([]models.ProductCategory, error) {
	var categories = []models.ProductCategory{}
	query := r.repository.GoquDBWrapper.Select("id", "name").From("product_categories").Order(goqu.C("name").Asc())
	if err := query.Executor().ScanStructs(&categories); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return categories, nil
}

func (r *ProductRepository) PersistCategory(category *models.ProductCategory) error {
	query := r.repository.GoquDBWrapper.Insert("product_categories").
		Rows(goqu.Record{"name": category.Name}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&category.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("for category "+category.Name, string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert category record: %w", err)
	}

	return nil
}
