package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnableCompanyProductRequest habilita un producto en el catálogo de una empresa.
type EnableCompanyProductRequest struct {
	CompanyID           string           `json:"company_id" validate:"required,uuid"`
	ProductID           string           `json:"product_id" validate:"required,uuid"`
	Price               *decimal.Decimal `json:"price"`
	QuotationExpiryDate *time.Time       `json:"quotation_expiry_date"`
}

// UpdateCompanyProductPriceRequest edición manual del precio vigente.
// QuotationExpiryDate nil deja la vigencia actual.
type UpdateCompanyProductPriceRequest struct {
	Price               decimal.Decimal `json:"price"`
	QuotationExpiryDate *time.Time      `json:"quotation_expiry_date"`
}

// CompanyProductResponse entrada del libro de precios de una empresa.
type CompanyProductResponse struct {
	ID                  string           `json:"id"`
	CompanyID           string           `json:"company_id"`
	CompanyName         string           `json:"company_name"`
	ProductID           string           `json:"product_id"`
	ProductCode         string           `json:"product_code"`
	ProductName         string           `json:"product_name"`
	Price               *decimal.Decimal `json:"price"`
	QuotationExpiryDate *time.Time       `json:"quotation_expiry_date"`
	IsEnabled           bool             `json:"is_enabled"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// CompanyProductListResponse catálogo paginado de una empresa.
type CompanyProductListResponse struct {
	Items []CompanyProductResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
