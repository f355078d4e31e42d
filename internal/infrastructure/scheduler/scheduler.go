package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/pkg/logger"
)

// BatchApplier lo implementa pricing.ApplyScheduledPricesUseCase.
type BatchApplier interface {
	ApplyDueSchedules(ctx context.Context, now time.Time, actorID string) (*dto.BatchSummary, error)
}

// PriceScheduler dispara el lote de precios programados según una expresión cron.
type PriceScheduler struct {
	cron    *cron.Cron
	applier BatchApplier
	actorID string
	timeout time.Duration
	log     *logger.Logger
	now     func() time.Time
}

// New registra el trabajo con la expresión spec (formato de 5 campos o descriptores como "@every 15m").
// timeout acota cada ejecución; 0 = sin límite.
func New(spec string, applier BatchApplier, actorID string, timeout time.Duration, log *logger.Logger) (*PriceScheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	s := &PriceScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		applier: applier,
		actorID: actorID,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("expresión cron inválida %q: %w", spec, err)
	}
	return s, nil
}

// Start arranca el cron en su propia goroutine.
func (s *PriceScheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler de precios iniciado")
}

// Stop detiene el cron y espera la ejecución en curso o hasta que ctx expire.
func (s *PriceScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler de precios detenido con una ejecución en curso")
	}
}

// RunOnce ejecuta un lote con la hora actual. Los errores solo se registran.
func (s *PriceScheduler) RunOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	summary, err := s.applier.ApplyDueSchedules(ctx, s.now(), s.actorID)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduler: lote de precios fallido")
		return
	}
	s.log.Debug().
		Int("applied", summary.AppliedCount).
		Int("failed", summary.FailedCount).
		Msg("scheduler: lote de precios ejecutado")
}
