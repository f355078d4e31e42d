package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"     // back office
	RoleComprador = "comprador" // usuario de la empresa cliente que hace pedidos
	RoleAprobador = "aprobador" // aprueba pedidos de su empresa
)

// User representa un usuario del sistema (pertenece a una Company).
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt
	Name         string
	Role         string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
