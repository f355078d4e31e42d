package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un lubricante en el catálogo general.
type CreateProductRequest struct {
	Code           string          `json:"code" validate:"required,min=1,max=50"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Description    string          `json:"description"`
	Brand          string          `json:"brand" validate:"max=100"`
	ViscosityGrade string          `json:"viscosity_grade" validate:"max=50"`
	PackageSize    decimal.Decimal `json:"package_size"`
	UnitMeasure    string          `json:"unit_measure" validate:"required,oneof=L gal kg tambor"`
	ListPrice      decimal.Decimal `json:"list_price"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description"`
	Brand          *string          `json:"brand" validate:"omitempty,max=100"`
	ViscosityGrade *string          `json:"viscosity_grade" validate:"omitempty,max=50"`
	PackageSize    *decimal.Decimal `json:"package_size"`
	UnitMeasure    *string          `json:"unit_measure" validate:"omitempty,oneof=L gal kg tambor"`
	ListPrice      *decimal.Decimal `json:"list_price"`
	Status         *string          `json:"status" validate:"omitempty,oneof=active discontinued"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Brand          string          `json:"brand"`
	ViscosityGrade string          `json:"viscosity_grade"`
	PackageSize    decimal.Decimal `json:"package_size"`
	UnitMeasure    string          `json:"unit_measure"`
	ListPrice      decimal.Decimal `json:"list_price"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
