package models

// StockLocation is the per-location breakdown of a product's on-hand stock.
// At most one row exists per (product, location) pair.
type StockLocation struct {
	ID          int      `json:"id" db:"id"`
	Product     Product  `json:"product"`
	Location    Location `json:"location"`
	OnHandStock int      `json:"on_hand_stock"`
}

type FlatStockLocation struct {
	ID           int    `db:"id"`
	ProductID    int    `db:"product_id"`
	ProductName  string `db:"product_name"`
	LocationID   int    `db:"location_id"`
	LocationName string `db:"location_name"`
	OnHandStock  int    `db:"on_hand_stock"`
}

func (f *FlatStockLocation) TransformToStockLocation() StockLocation {
	return StockLocation{
		ID:          f.ID,
		Product:     Product{ID: f.ProductID, Name: f.ProductName},
		Location:    Location{ID: f.LocationID, Name: f.LocationName},
		OnHandStock: f.OnHandStock,
	}
}

func (s *StockLocation) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "stock_location",
	}
}

// StockDiscrepancy reports a product whose aggregate counter and
// per-location breakdown no longer agree.
type StockDiscrepancy struct {
	ProductID      int    `json:"product_id" db:"product_id"`
	ProductName    string `json:"product_name" db:"product_name"`
	AggregateStock int    `json:"aggregate_stock" db:"aggregate_stock"`
	LocationStock  int    `json:"location_stock" db:"location_stock"`
}
