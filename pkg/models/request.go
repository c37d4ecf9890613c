package models

import "time"

const (
	RequestKindWithdrawal = "withdrawal"
	RequestKindReturn     = "return"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Request is a withdrawal or return slip. It is born pending and moves
// exactly once to approved or rejected; only that transition touches stock.
type Request struct {
	ID          int           `json:"id" db:"id"`
	Kind        string        `json:"kind" db:"kind"`
	JobNo       string        `json:"job_no" db:"job_no"`
	RequestedBy string        `json:"requested_by" db:"requested_by"`
	Site        Site          `json:"site"`
	Note        string        `json:"note" db:"note"`
	Status      string        `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	Items       []RequestItem `json:"items"`
}

func (r *Request) IsTerminal() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusRejected
}

type RequestItem struct {
	ID           int     `json:"id" db:"id"`
	Product      Product `json:"product"`
	QtyRequested int     `json:"qty_requested" db:"qty_requested"`
	QtyApproved  *int    `json:"qty_approved,omitempty" db:"qty_approved"`
	Remark       string  `json:"remark,omitempty" db:"remark"`
}

type FlatRequest struct {
	ID          int       `db:"id"`
	Kind        string    `db:"kind"`
	JobNo       string    `db:"job_no"`
	RequestedBy string    `db:"requested_by"`
	SiteID      int       `db:"site_id"`
	SiteName    string    `db:"site_name"`
	Note        string    `db:"note"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
}

func (fr *FlatRequest) TransformToRequest() Request {
	return Request{
		ID:          fr.ID,
		Kind:        fr.Kind,
		JobNo:       fr.JobNo,
		RequestedBy: fr.RequestedBy,
		Site:        Site{ID: fr.SiteID, Name: fr.SiteName},
		Note:        fr.Note,
		Status:      fr.Status,
		CreatedAt:   fr.CreatedAt,
	}
}

type FlatRequestItem struct {
	ID           int    `db:"id"`
	RequestID    int    `db:"request_id"`
	ProductID    int    `db:"product_id"`
	ProductName  string `db:"product_name"`
	ProductUnit  string `db:"product_unit"`
	ProductStock int    `db:"product_stock"`
	QtyRequested int    `db:"qty_requested"`
	QtyApproved  *int   `db:"qty_approved"`
	Remark       string `db:"remark"`
}

func (fi *FlatRequestItem) TransformToRequestItem() RequestItem {
	return RequestItem{
		ID: fi.ID,
		Product: Product{
			ID:    fi.ProductID,
			Name:  fi.ProductName,
			Unit:  fi.ProductUnit,
			Stock: fi.ProductStock,
		},
		QtyRequested: fi.QtyRequested,
		QtyApproved:  fi.QtyApproved,
		Remark:       fi.Remark,
	}
}

func (r *Request) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   r.ID,
		ResourceType: "request",
	}
}
