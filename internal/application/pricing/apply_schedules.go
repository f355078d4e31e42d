package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/pkg/logger"
)

// ApplyScheduledPricesUseCase promueve las programaciones de precio vencidas al libro de precios vigente.
//
// Todo el lote corre en una sola transacción. Cada ítem se ejecuta en su propio savepoint:
// un fallo de validación o de constraint revierte solo ese ítem y el lote continúa. Si la
// transacción queda inutilizable o el Commit falla, la invocación falla sin resumen parcial.
type ApplyScheduledPricesUseCase struct {
	txRunner TxRunner
	lock     RunLock
	log      *logger.Logger
	clock    func() time.Time
}

// NewApplyScheduledPricesUseCase construye el caso de uso. lock puede ser nil.
func NewApplyScheduledPricesUseCase(txRunner TxRunner, lock RunLock, log *logger.Logger) *ApplyScheduledPricesUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ApplyScheduledPricesUseCase{
		txRunner: txRunner,
		lock:     lock,
		log:      log,
		clock:    time.Now,
	}
}

// ApplyDueSchedules aplica, en orden ascendente de fecha efectiva, cada programación con
// effective_date <= now y no aplicada. actorID queda en la bitácora; la autorización es del caller.
//
// Errores de invocación: domain.ErrBatchInProgress, ErrSelection, ErrTxAborted.
// Los fallos por ítem no son error: se reportan en el resumen.
func (uc *ApplyScheduledPricesUseCase) ApplyDueSchedules(ctx context.Context, now time.Time, actorID string) (*dto.BatchSummary, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.lock != nil {
		release, ok, err := uc.lock.TryAcquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("adquirir candado del lote: %w", err)
		}
		if !ok {
			return nil, domain.ErrBatchInProgress
		}
		defer release()
	}

	started := uc.clock()
	var results []dto.BatchResult

	err := uc.txRunner.RunPricing(ctx, func(tx Tx) error {
		due, err := tx.Repos().Schedules.FindDueUnapplied(ctx, now)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSelection, err)
		}
		results = make([]dto.BatchResult, 0, len(due))
		for _, s := range due {
			res, err := uc.applyOne(ctx, tx, s, actorID)
			if err != nil {
				return err
			}
			results = append(results, res)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSelection) && !errors.Is(err, ErrTxAborted) {
			err = fmt.Errorf("%w: %w", ErrTxAborted, err)
		}
		uc.log.Error().Err(err).Time("cutoff", now).Str("actor_id", actorID).Msg("lote de precios programados fallido")
		return nil, err
	}

	summary := &dto.BatchSummary{
		AppliedCount: lo.CountBy(results, func(r dto.BatchResult) bool { return r.Success }),
		Details:      results,
	}
	summary.FailedCount = len(results) - summary.AppliedCount

	uc.log.Info().
		Time("cutoff", now).
		Str("actor_id", actorID).
		Int("applied", summary.AppliedCount).
		Int("failed", summary.FailedCount).
		Dur("duration", uc.clock().Sub(started)).
		Msg("lote de precios programados aplicado")
	return summary, nil
}

// applyOne aplica una programación dentro de su savepoint. Devuelve error solo si el lote
// completo debe abortarse; cualquier otro fallo queda como BatchResult fallido.
func (uc *ApplyScheduledPricesUseCase) applyOne(ctx context.Context, tx Tx, s *entity.PriceSchedule, actorID string) (dto.BatchResult, error) {
	res := dto.BatchResult{
		ScheduleID:    s.ID,
		NewPrice:      s.ScheduledPrice,
		EffectiveDate: s.EffectiveDate,
		ExpiryDate:    s.ExpiryDate,
	}
	if !entity.IsValidPrice(s.ScheduledPrice) {
		res.Error = describeItemError(domain.ErrInvalidPrice)
		uc.logItemFailure(s, domain.ErrInvalidPrice)
		return res, nil
	}

	var cp *entity.CompanyProduct
	err := tx.Savepoint(ctx, func(r Repos) error {
		var err error
		cp, err = r.Ledger.GetForUpdate(ctx, s.CompanyProductID)
		if err != nil {
			return err
		}
		if cp == nil {
			return fmt.Errorf("libro de precios %s: %w", s.CompanyProductID, domain.ErrNotFound)
		}
		if err := r.Ledger.UpdatePriceAndExpiry(ctx, cp.ID, s.ScheduledPrice, s.ExpiryDate); err != nil {
			return err
		}
		if err := r.Schedules.MarkApplied(ctx, s.ID, uc.clock()); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &entity.AuditLog{
			ID:         uuid.New().String(),
			ActorID:    actorID,
			Action:     entity.AuditActionApplyScheduledPrice,
			TargetType: entity.AuditTargetCompanyProduct,
			TargetID:   cp.ID,
			Details:    appliedPriceDetails(cp, s),
			CreatedAt:  uc.clock(),
		})
	})
	if err != nil {
		if errors.Is(err, ErrTxAborted) {
			return res, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("%w: %w", ErrTxAborted, ctxErr)
		}
		res.Error = describeItemError(err)
		uc.logItemFailure(s, err)
		return res, nil
	}

	res.Success = true
	res.CompanyName = cp.CompanyName
	res.ProductName = cp.ProductName
	return res, nil
}

func (uc *ApplyScheduledPricesUseCase) logItemFailure(s *entity.PriceSchedule, err error) {
	uc.log.Warn().
		Err(err).
		Str("schedule_id", s.ID).
		Str("company_product_id", s.CompanyProductID).
		Msg("programación de precio no aplicada")
}

// appliedPriceDetails texto de bitácora con precio anterior, nuevo y vigencia si cambia.
func appliedPriceDetails(cp *entity.CompanyProduct, s *entity.PriceSchedule) string {
	before := "sin precio"
	if cp.Price != nil {
		before = cp.Price.StringFixed(2)
	}
	details := fmt.Sprintf("Precio programado aplicado a %s (%s): %s → %s",
		cp.ProductName, cp.CompanyName, before, s.ScheduledPrice.StringFixed(2))
	if s.ExpiryDate != nil {
		details += "; vigencia de cotización hasta " + s.ExpiryDate.Format(time.DateOnly)
	}
	return details
}

func describeItemError(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "el producto de la empresa ya no existe"
	case errors.Is(err, domain.ErrInvalidPrice):
		return domain.ErrInvalidPrice.Error()
	case errors.Is(err, domain.ErrScheduleAlreadyApplied):
		return domain.ErrScheduleAlreadyApplied.Error()
	default:
		return err.Error()
	}
}
