package entity

import "time"

// Acciones registradas en la bitácora administrativa.
const (
	AuditActionApplyScheduledPrice = "APPLY_SCHEDULED_PRICE"
	AuditActionUpdatePrice         = "UPDATE_COMPANY_PRODUCT_PRICE"
	AuditActionCreateSchedule      = "CREATE_PRICE_SCHEDULE"
	AuditActionCancelSchedule      = "CANCEL_PRICE_SCHEDULE"
)

// Tipos de objetivo de la bitácora.
const (
	AuditTargetCompanyProduct = "company_product"
	AuditTargetPriceSchedule  = "price_schedule"
)

// AuditLog registro inmutable de una acción administrativa (solo inserción).
type AuditLog struct {
	ID         string
	ActorID    string
	Action     string
	TargetType string
	TargetID   string
	Details    string
	CreatedAt  time.Time
}
