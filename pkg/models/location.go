package models

// Location is a physical storage point (shelf, container, yard).
type Location struct {
	ID      int     `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Details *string `json:"details" db:"details"`
}
