package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSchedule es un cambio de precio futuro pendiente de activación sobre un CompanyProduct.
// IsApplied pasa de false a true una sola vez y nunca vuelve atrás.
type PriceSchedule struct {
	ID               string
	CompanyProductID string
	ScheduledPrice   decimal.Decimal
	EffectiveDate    time.Time
	ExpiryDate       *time.Time // si viene, reemplaza la vigencia de cotización del libro
	IsApplied        bool
	AppliedAt        *time.Time
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsDue informa si la programación debe aplicarse en el instante now.
func (s *PriceSchedule) IsDue(now time.Time) bool {
	return !s.IsApplied && !s.EffectiveDate.After(now)
}
