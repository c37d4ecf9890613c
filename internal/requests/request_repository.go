package requests

import (
	"fmt"
	"time"

	"github.com/sangphomma/Siriwong-Inventory-App/internal/repository"
	custom_error "github.com/sangphomma/Siriwong-Inventory-App/pkg/errors"
	"github.com/sangphomma/Siriwong-Inventory-App/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type RequestRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *RequestRepository {
	return &RequestRepository{repository: r}
}

func (r *RequestRepository) Insert(tx *goqu.TxDatabase, req *models.Request) error {
	query := tx.Insert("requests").
		Rows(goqu.Record{
			"kind":         req.Kind,
			"job_no":       req.JobNo,
			"requested_by": req.RequestedBy,
			"site_id":      req.Site.ID,
			"note":         req.Note,
			"status":       models.RequestStatusPending,
		}).
		Returning("id", "created_at")

	var inserted struct {
		ID        int       `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	if _, err := query.Executor().ScanStruct(&inserted); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("site %d: %w", req.Site.ID, custom_error.ErrNotFound)
		}
		return fmt.Errorf("failed to insert request record: %w", err)
	}
	req.ID = inserted.ID
	req.CreatedAt = inserted.CreatedAt
	req.Status = models.RequestStatusPending

	for i := range req.Items {
		item := &req.Items[i]
		itemQuery := tx.Insert("request_items").
			Rows(goqu.Record{
				"request_id":    req.ID,
				"product_id":    item.Product.ID,
				"qty_requested": item.QtyRequested,
				"remark":        item.Remark,
			}).
			Returning("id")

		if _, err := itemQuery.Executor().ScanVal(&item.ID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return fmt.Errorf("product %d: %w", item.Product.ID, custom_error.ErrNotFound)
			}
			return fmt.Errorf("failed to insert request item record: %w", err)
		}
	}

	return nil
}

func (r *RequestRepository) GetRequest(id int) (*models.Request, error) {
	return r.getRequest(r.repository.GoquDBWrapper, id)
}

// GetRequestTx reads the request inside the approval transaction so the
// items seen are the ones the claim locked in.
func (r *RequestRepository) GetRequestTx(tx *goqu.TxDatabase, id int) (*models.Request, error) {
	return r.getRequest(tx, id)
}

// queryable covers both *goqu.Database and *goqu.TxDatabase.
type queryable interface {
	From(...interface{}) *goqu.SelectDataset
	Select(...interface{}) *goqu.SelectDataset
}

func (r *RequestRepository) getRequest(db queryable, id int) (*models.Request, error) {
	var flat models.FlatRequest
	query := db.
		Select(
			goqu.I("r.id").As("id"),
			goqu.I("r.kind").As("kind"),
			goqu.I("r.job_no").As("job_no"),
			goqu.I("r.requested_by").As("requested_by"),
			goqu.I("r.site_id").As("site_id"),
			goqu.I("s.name").As("site_name"),
			goqu.I("r.note").As("note"),
			goqu.I("r.status").As("status"),
			goqu.I("r.created_at").As("created_at"),
		).
		From(goqu.T("requests").As("r")).
		Join(goqu.T("project_sites").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("r.site_id")})).
		Where(goqu.Ex{"r.id": id})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for request: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("request %d: %w", id, custom_error.ErrNotFound)
	}

	request := flat.TransformToRequest()
	request.Items, err = r.getRequestItems(db, id)
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// Items come back ordered by id so one approval always applies its
// adjustments in a stable order.
func (r *RequestRepository) getRequestItems(db queryable, requestID int) ([]models.RequestItem, error) {
	var flatItems []models.FlatRequestItem
	query := db.
		Select(
			goqu.I("i.id").As("id"),
			goqu.I("i.request_id").As("request_id"),
			goqu.I("i.product_id").As("product_id"),
			goqu.I("p.name").As("product_name"),
			goqu.I("p.unit").As("product_unit"),
			goqu.I("p.stock").As("product_stock"),
			goqu.I("i.qty_requested").As("qty_requested"),
			goqu.I("i.qty_approved").As("qty_approved"),
			goqu.I("i.remark").As("remark"),
		).
		From(goqu.T("request_items").As("i")).
		Join(goqu.T("products").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("i.product_id")})).
		Where(goqu.Ex{"i.request_id": requestID}).
		Order(goqu.I("i.id").Asc())

	if err := query.Executor().ScanStructs(&flatItems); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for request items: %w", err)
	}

	items := make([]models.RequestItem, 0, len(flatItems))
	for i := range flatItems {
		items = append(items, flatItems[i].TransformToRequestItem())
	}

	return items, nil
}

func (r *RequestRepository) ListRequests(filter ListRequestsQuery) ([]models.Request, error) {
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("r.id").As("id"),
			goqu.I("r.kind").As("kind"),
			goqu.I("r.job_no").As("job_no"),
			goqu.I("r.requested_by").As("requested_by"),
			goqu.I("r.site_id").As("site_id"),
			goqu.I("s.name").As("site_name"),
			goqu.I("r.note").As("note"),
			goqu.I("r.status").As("status"),
			goqu.I("r.created_at").As("created_at"),
		).
		From(goqu.T("requests").As("r")).
		Join(goqu.T("project_sites").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("r.site_id")})).
		Order(goqu.I("r.created_at").Desc())

	if filter.Status != "" {
		query = query.Where(goqu.Ex{"r.status": filter.Status})
	}
	if filter.Kind != "" {
		query = query.Where(goqu.Ex{"r.kind": filter.Kind})
	}
	if filter.RequestedBy != "" {
		query = query.Where(goqu.Ex{"r.requested_by": filter.RequestedBy})
	}

	var flatRequests []models.FlatRequest
	if err := query.Executor().ScanStructs(&flatRequests); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for requests: %w", err)
	}

	requests := make([]models.Request, 0, len(flatRequests))
	for i := range flatRequests {
		requests = append(requests, flatRequests[i].TransformToRequest())
	}

	return requests, nil
}

// ClaimPending performs the guarded status transition. The WHERE clause on
// status makes a retried approval affect zero rows instead of deducting
// stock twice; noteSuffix, when set, is appended to the audit note in the
// same statement.
func (r *RequestRepository) ClaimPending(tx *goqu.TxDatabase, id int, newStatus string, noteSuffix *string) (bool, error) {
	record := goqu.Record{"status": newStatus}
	if noteSuffix != nil {
		record["note"] = goqu.L("note || ?", *noteSuffix)
	}

	result, err := tx.Update("requests").
		Set(record).
		Where(goqu.Ex{"id": id, "status": models.RequestStatusPending}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for request %d: %w", id, err)
	}

	return rowsAffected > 0, nil
}

// ListStalePending selects pending requests created before the cutoff, the
// reaper's sweep set.
func (r *RequestRepository) ListStalePending(cutoff time.Time) ([]models.Request, error) {
	var flatRequests []models.FlatRequest
	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("r.id").As("id"),
			goqu.I("r.kind").As("kind"),
			goqu.I("r.job_no").As("job_no"),
			goqu.I("r.requested_by").As("requested_by"),
			goqu.I("r.site_id").As("site_id"),
			goqu.I("s.name").As("site_name"),
			goqu.I("r.note").As("note"),
			goqu.I("r.status").As("status"),
			goqu.I("r.created_at").As("created_at"),
		).
		From(goqu.T("requests").As("r")).
		Join(goqu.T("project_sites").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("r.site_id")})).
		Where(goqu.Ex{"r.status": models.RequestStatusPending}).
		Where(goqu.C("created_at").Table("r").Lt(cutoff)).
		Order(goqu.I("r.created_at").Asc())

	if err := query.Executor().ScanStructs(&flatRequests); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stale requests: %w", err)
	}

	requests := make([]models.Request, 0, len(flatRequests))
	for i := range flatRequests {
		requests = append(requests, flatRequests[i].TransformToRequest())
	}

	return requests, nil
}

// DeleteRequest removes a request; its items go with it via ON DELETE
// CASCADE.
func (r *RequestRepository) DeleteRequest(id int) error {
	result, err := r.repository.GoquDBWrapper.Delete("requests").
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete request %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("request %d: %w", id, custom_error.ErrNotFound)
	}

	return nil
}
