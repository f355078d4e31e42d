package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un lubricante del catálogo general.
// El precio que paga cada empresa vive en CompanyProduct; ListPrice es solo referencia.
type Product struct {
	ID             string
	Code           string // código interno único
	Name           string
	Description    string
	Brand          string
	ViscosityGrade string          // ej. SAE 15W-40, ISO VG 68
	PackageSize    decimal.Decimal // contenido por empaque
	UnitMeasure    string          // L, gal, kg, tambor
	ListPrice      decimal.Decimal
	Status         string // active, discontinued
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
