package models

type ProductCategory struct {
	ID   int    `json:"id,omitempty" db:"id"`
	Name string `json:"name" binding:"required" db:"name"`
}

type Product struct {
	ID       int             `json:"id" db:"id"`
	Name     string          `json:"name" db:"name"`
	Unit     string          `json:"unit" db:"unit"`
	Stock    int             `json:"stock" db:"stock"`
	Category ProductCategory `json:"category" db:"-"`
}

// FlatProduct is the joined row shape returned by the catalog queries.
type FlatProduct struct {
	ID           int     `db:"id"`
	Name         string  `db:"name"`
	Unit         string  `db:"unit"`
	Stock        int     `db:"stock"`
	CategoryID   *int    `db:"category_id"`
	CategoryName *string `db:"category_name"`
}

func (fp *FlatProduct) TransformToProduct() Product {
	p := Product{
		ID:    fp.ID,
		Name:  fp.Name,
		Unit:  fp.Unit,
		Stock: fp.Stock,
	}

	if fp.CategoryID != nil {
		p.Category = ProductCategory{ID: *fp.CategoryID}
		if fp.CategoryName != nil {
			p.Category.Name = *fp.CategoryName
		}
	}

	return p
}

func (p *Product) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "product",
	}
}
