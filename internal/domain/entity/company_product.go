package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyProduct es la entrada del libro de precios vigente para un par (empresa, producto).
// Existe a lo sumo una por par; Price nil significa "sin precio asignado".
type CompanyProduct struct {
	ID                  string
	CompanyID           string
	ProductID           string
	Price               *decimal.Decimal
	QuotationExpiryDate *time.Time
	IsEnabled           bool
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Solo lectura (JOIN con companies y products).
	CompanyName string
	ProductName string
	ProductCode string
}

// PriceScale decimales que admite un precio (columnas NUMERIC(14,2)).
const PriceScale = 2

// IsValidPrice informa si p es positivo y no tiene más de PriceScale decimales.
func IsValidPrice(p decimal.Decimal) bool {
	return p.IsPositive() && p.Equal(p.Round(PriceScale))
}
