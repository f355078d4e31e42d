package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// Estados de filtro para listar programaciones.
const (
	ScheduleStatusPending = "pending"
	ScheduleStatusApplied = "applied"
)

// ScheduleUseCase administra las programaciones de precio (crear, listar, cancelar).
type ScheduleUseCase struct {
	txRunner     TxRunner
	scheduleRepo repository.PriceScheduleRepository
}

// NewScheduleUseCase construye el caso de uso.
func NewScheduleUseCase(txRunner TxRunner, scheduleRepo repository.PriceScheduleRepository) *ScheduleUseCase {
	return &ScheduleUseCase{txRunner: txRunner, scheduleRepo: scheduleRepo}
}

// Create registra una programación pendiente sobre un producto de empresa existente
// y deja constancia en la bitácora en la misma transacción.
func (uc *ScheduleUseCase) Create(ctx context.Context, actorID string, in dto.CreatePriceScheduleRequest) (*dto.PriceScheduleResponse, error) {
	if in.CompanyProductID == "" || in.EffectiveDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidPrice(in.ScheduledPrice) {
		return nil, domain.ErrInvalidPrice
	}
	if in.ExpiryDate != nil && !in.ExpiryDate.After(in.EffectiveDate) {
		return nil, fmt.Errorf("%w: la vigencia debe ser posterior a la fecha efectiva", domain.ErrInvalidInput)
	}

	now := time.Now()
	schedule := &entity.PriceSchedule{
		ID:               uuid.New().String(),
		CompanyProductID: in.CompanyProductID,
		ScheduledPrice:   in.ScheduledPrice,
		EffectiveDate:    in.EffectiveDate,
		ExpiryDate:       in.ExpiryDate,
		CreatedBy:        actorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := uc.txRunner.RunPricing(ctx, func(tx Tx) error {
		r := tx.Repos()
		cp, err := r.Ledger.GetByID(ctx, in.CompanyProductID)
		if err != nil {
			return err
		}
		if cp == nil {
			return domain.ErrNotFound
		}
		if err := r.Schedules.Create(ctx, schedule); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &entity.AuditLog{
			ID:         uuid.New().String(),
			ActorID:    actorID,
			Action:     entity.AuditActionCreateSchedule,
			TargetType: entity.AuditTargetPriceSchedule,
			TargetID:   schedule.ID,
			Details: fmt.Sprintf("Precio %s programado para %s (%s) desde %s",
				schedule.ScheduledPrice.StringFixed(2), cp.ProductName, cp.CompanyName,
				schedule.EffectiveDate.Format(time.DateOnly)),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return toPriceScheduleResponse(schedule), nil
}

// List lista programaciones con filtros y paginación.
func (uc *ScheduleUseCase) List(ctx context.Context, filter repository.PriceScheduleFilter) (*dto.PriceScheduleListResponse, error) {
	switch filter.Status {
	case "", ScheduleStatusPending, ScheduleStatusApplied:
	default:
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.scheduleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PriceScheduleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toPriceScheduleResponse(s))
	}
	return &dto.PriceScheduleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// Cancel elimina una programación aún no aplicada. Las aplicadas son terminales.
func (uc *ScheduleUseCase) Cancel(ctx context.Context, actorID, id string) error {
	return uc.txRunner.RunPricing(ctx, func(tx Tx) error {
		r := tx.Repos()
		s, err := r.Schedules.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.IsApplied {
			return domain.ErrScheduleAlreadyApplied
		}
		if err := r.Schedules.DeletePending(ctx, id); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &entity.AuditLog{
			ID:         uuid.New().String(),
			ActorID:    actorID,
			Action:     entity.AuditActionCancelSchedule,
			TargetType: entity.AuditTargetPriceSchedule,
			TargetID:   id,
			Details: fmt.Sprintf("Programación cancelada: precio %s desde %s",
				s.ScheduledPrice.StringFixed(2), s.EffectiveDate.Format(time.DateOnly)),
			CreatedAt: time.Now(),
		})
	})
}

func toPriceScheduleResponse(s *entity.PriceSchedule) *dto.PriceScheduleResponse {
	return &dto.PriceScheduleResponse{
		ID:               s.ID,
		CompanyProductID: s.CompanyProductID,
		ScheduledPrice:   s.ScheduledPrice,
		EffectiveDate:    s.EffectiveDate,
		ExpiryDate:       s.ExpiryDate,
		IsApplied:        s.IsApplied,
		AppliedAt:        s.AppliedAt,
		CreatedBy:        s.CreatedBy,
		CreatedAt:        s.CreatedAt,
	}
}
