package entity

import "time"

// Company representa una empresa (tenant). Todos los productos y bodegas pertenecen a una empresa.
type Company struct {
	ID        string
	Name      string
	TaxID     string // identificación tributaria, única
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
