package ledger

type RegisterStockLocationRequest struct {
	ProductID   int `json:"product_id" binding:"required"`
	LocationID  int `json:"location_id" binding:"required"`
	OnHandStock int `json:"on_hand_stock" binding:"gte=0"`
}

type TransferStockRequest struct {
	ProductID      int `json:"product_id" binding:"required"`
	FromLocationID int `json:"from_location_id" binding:"required"`
	ToLocationID   int `json:"to_location_id" binding:"required"`
	Qty            int `json:"qty" binding:"required,gte=1"`
}

type RestockRequest struct {
	LocationID int `json:"location_id" binding:"required"`
	Qty        int `json:"qty" binding:"required,gte=1"`
}
