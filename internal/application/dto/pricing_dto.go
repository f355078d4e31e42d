package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActionApplySchedules única acción aceptada por el endpoint de aplicación de precios.
const ActionApplySchedules = "apply_schedules"

// CreatePriceScheduleRequest entrada para programar un cambio de precio.
type CreatePriceScheduleRequest struct {
	CompanyProductID string          `json:"company_product_id" validate:"required,uuid"`
	ScheduledPrice   decimal.Decimal `json:"scheduled_price"`
	EffectiveDate    time.Time       `json:"effective_date"`
	ExpiryDate       *time.Time      `json:"expiry_date"`
}

// PriceScheduleResponse salida de una programación.
type PriceScheduleResponse struct {
	ID               string          `json:"id"`
	CompanyProductID string          `json:"company_product_id"`
	ScheduledPrice   decimal.Decimal `json:"scheduled_price"`
	EffectiveDate    time.Time       `json:"effective_date"`
	ExpiryDate       *time.Time      `json:"expiry_date"`
	IsApplied        bool            `json:"is_applied"`
	AppliedAt        *time.Time      `json:"applied_at"`
	CreatedBy        string          `json:"created_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PriceScheduleListResponse lista paginada de programaciones.
type PriceScheduleListResponse struct {
	Items []PriceScheduleResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ApplySchedulesRequest cuerpo del endpoint de aplicación: {"action":"apply_schedules"}.
type ApplySchedulesRequest struct {
	Action string `json:"action" validate:"required,eq=apply_schedules"`
}

// BatchResult resultado de una programación procesada en un lote.
// En éxito lleva los valores aplicados; en fallo, Error describe la causa.
type BatchResult struct {
	Success       bool            `json:"success"`
	ScheduleID    string          `json:"scheduleId"`
	CompanyName   string          `json:"companyName,omitempty"`
	ProductName   string          `json:"productName,omitempty"`
	NewPrice      decimal.Decimal `json:"newPrice"`
	EffectiveDate time.Time       `json:"effectiveDate"`
	ExpiryDate    *time.Time      `json:"expiryDate"`
	Error         string          `json:"error,omitempty"`
}

// BatchSummary resumen de una ejecución del lote; Details sigue el orden de procesamiento.
type BatchSummary struct {
	AppliedCount int           `json:"appliedCount"`
	FailedCount  int           `json:"failedCount"`
	Details      []BatchResult `json:"details"`
}

// ApplySchedulesResponse respuesta exitosa del endpoint de aplicación.
type ApplySchedulesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	BatchSummary
}
