package requests

type RequestItemPayload struct {
	ProductID    int    `json:"product_id" binding:"required"`
	QtyRequested int    `json:"qty_requested" binding:"required,gte=1"`
	Remark       string `json:"remark"`
}

type CreateRequestPayload struct {
	Kind        string               `json:"kind" binding:"required,oneof=withdrawal return"`
	JobNo       string               `json:"job_no" binding:"required"`
	RequestedBy string               `json:"requested_by" binding:"required"`
	SiteID      int                  `json:"site_id" binding:"required"`
	Note        string               `json:"note"`
	Items       []RequestItemPayload `json:"items" binding:"required,min=1,dive"`
}

type RejectRequestPayload struct {
	Remark string `json:"remark"`
}

type ListRequestsQuery struct {
	Status      string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Kind        string `form:"kind" binding:"omitempty,oneof=withdrawal return"`
	RequestedBy string `form:"requested_by"`
}
