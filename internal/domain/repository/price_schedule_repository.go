package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
)

// PriceScheduleFilter filtros para listar programaciones.
type PriceScheduleFilter struct {
	CompanyID string
	Status    string // pending, applied, "" = todas
	Limit     int
	Offset    int
}

// PriceScheduleRepository puerto del almacén de programaciones de precio.
type PriceScheduleRepository interface {
	Create(ctx context.Context, s *entity.PriceSchedule) error
	GetByID(ctx context.Context, id string) (*entity.PriceSchedule, error)
	List(ctx context.Context, filter PriceScheduleFilter) ([]*entity.PriceSchedule, error)
	// FindDueUnapplied devuelve las programaciones con effective_date <= now y no aplicadas,
	// en orden ascendente de effective_date (id como desempate). Dentro de una tx bloquea las filas.
	FindDueUnapplied(ctx context.Context, now time.Time) ([]*entity.PriceSchedule, error)
	// MarkApplied hace compare-and-set de is_applied false -> true.
	// Devuelve domain.ErrScheduleAlreadyApplied si otra ejecución ya la marcó.
	MarkApplied(ctx context.Context, id string, appliedAt time.Time) error
	// DeletePending elimina una programación no aplicada.
	DeletePending(ctx context.Context, id string) error
}
