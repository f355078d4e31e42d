package dto

import "time"

// CreateCompanyRequest alta de una empresa cliente. El NIT se guarda tal cual llega
// (con o sin dígito de verificación) y no puede repetirse.
type CreateCompanyRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	NIT     string `json:"nit" validate:"required,min=5,max=20"`
	Address string `json:"address"`
	Phone   string `json:"phone" validate:"max=50"`
	Email   string `json:"email" validate:"omitempty,email,max=200"`
}

// UpdateCompanyRequest cambios parciales; nil = no tocar. Status suspended/inactive
// bloquea el catálogo de la empresa pero no sus precios.
type UpdateCompanyRequest struct {
	Name    *string `json:"name" validate:"omitempty,max=200"`
	Address *string `json:"address"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Email   *string `json:"email" validate:"omitempty,email,max=200"`
	Status  *string `json:"status" validate:"omitempty,oneof=active suspended inactive"`
}

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NIT       string    `json:"nit"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
