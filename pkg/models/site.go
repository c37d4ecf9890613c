package models

// Site is a construction project site requests are raised against.
type Site struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
