package entity

import "time"

// Estados de una empresa cliente.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// Company representa una empresa cliente (tenant) que compra lubricantes.
type Company struct {
	ID        string
	Name      string
	NIT       string // identificación tributaria
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
