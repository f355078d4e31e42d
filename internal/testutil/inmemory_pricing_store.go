package testutil

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// ErrInjected error de prueba devuelto por los puntos de falla configurables.
var ErrInjected = errors.New("testutil: falla inyectada")

// InMemoryPricingStore implementa pricing.TxRunner y los repos de precios en memoria.
// Las transacciones se serializan (equivale a los bloqueos de fila de Postgres) y se revierten
// restaurando una copia del estado; los savepoints funcionan igual a nivel de ítem.
type InMemoryPricingStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	ledger    map[string]*entity.CompanyProduct
	schedules map[string]*entity.PriceSchedule
	audit     []*entity.AuditLog

	// Puntos de falla. FailBegin, FailFind y FailCommit se consumen en la siguiente ejecución.
	FailBegin             error
	FailFind              error
	FailCommit            error
	FailSavepointRollback bool
	// AuditHook si devuelve error, Audit.Create falla con ese error.
	AuditHook func(entry *entity.AuditLog) error
}

var _ pricing.TxRunner = (*InMemoryPricingStore)(nil)

// NewInMemoryPricingStore crea un almacén vacío.
func NewInMemoryPricingStore() *InMemoryPricingStore {
	return &InMemoryPricingStore{
		ledger:    make(map[string]*entity.CompanyProduct),
		schedules: make(map[string]*entity.PriceSchedule),
	}
}

type pricingSnapshot struct {
	ledger    map[string]*entity.CompanyProduct
	schedules map[string]*entity.PriceSchedule
	audit     []*entity.AuditLog
}

func (s *InMemoryPricingStore) snapshot() pricingSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return pricingSnapshot{
		ledger:    lo.MapValues(s.ledger, func(cp *entity.CompanyProduct, _ string) *entity.CompanyProduct { return cloneCompanyProduct(cp) }),
		schedules: lo.MapValues(s.schedules, func(ps *entity.PriceSchedule, _ string) *entity.PriceSchedule { return cloneSchedule(ps) }),
		audit:     append([]*entity.AuditLog(nil), s.audit...),
	}
}

func (s *InMemoryPricingStore) restore(snap pricingSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = snap.ledger
	s.schedules = snap.schedules
	s.audit = snap.audit
}

// RunPricing ejecuta fn como una transacción: si fn o el Commit fallan, el estado se restaura.
func (s *InMemoryPricingStore) RunPricing(ctx context.Context, fn func(tx pricing.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := s.FailBegin; err != nil {
		s.FailBegin = nil
		return fmt.Errorf("%w: begin transaction: %w", pricing.ErrSelection, err)
	}
	snap := s.snapshot()
	if err := fn(&inMemoryTx{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	if err := s.FailCommit; err != nil {
		s.FailCommit = nil
		s.restore(snap)
		return fmt.Errorf("%w: commit transaction: %w", pricing.ErrTxAborted, err)
	}
	return nil
}

// Repos devuelve repos fuera de transacción, para lecturas de los tests y casos de uso.
func (s *InMemoryPricingStore) Repos() pricing.Repos {
	return pricing.Repos{
		Schedules: &inMemoryScheduleRepo{s},
		Ledger:    &inMemoryLedgerRepo{s},
		Audit:     &inMemoryAuditRepo{s},
	}
}

// AddCompanyProduct siembra una entrada del libro.
func (s *InMemoryPricingStore) AddCompanyProduct(cp *entity.CompanyProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger[cp.ID] = cloneCompanyProduct(cp)
}

// RemoveCompanyProduct elimina una entrada del libro sin tocar sus programaciones.
func (s *InMemoryPricingStore) RemoveCompanyProduct(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ledger, id)
}

// AddSchedule siembra una programación sin validar.
func (s *InMemoryPricingStore) AddSchedule(ps *entity.PriceSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules[ps.ID] = cloneSchedule(ps)
}

// CompanyProduct devuelve una copia de la entrada del libro (nil si no existe).
func (s *InMemoryPricingStore) CompanyProduct(id string) *entity.CompanyProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCompanyProduct(s.ledger[id])
}

// Schedule devuelve una copia de la programación (nil si no existe).
func (s *InMemoryPricingStore) Schedule(id string) *entity.PriceSchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSchedule(s.schedules[id])
}

// AuditEntries devuelve la bitácora en orden de inserción.
func (s *InMemoryPricingStore) AuditEntries() []*entity.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*entity.AuditLog(nil), s.audit...)
}

type inMemoryTx struct {
	store *InMemoryPricingStore
}

func (t *inMemoryTx) Repos() pricing.Repos {
	return t.store.Repos()
}

func (t *inMemoryTx) Savepoint(ctx context.Context, fn func(repos pricing.Repos) error) error {
	snap := t.store.snapshot()
	if err := fn(t.store.Repos()); err != nil {
		if t.store.FailSavepointRollback {
			return fmt.Errorf("%w: revertir savepoint: %w", pricing.ErrTxAborted, ErrInjected)
		}
		t.store.restore(snap)
		return err
	}
	return nil
}

// --- libro de precios ---

type inMemoryLedgerRepo struct{ s *InMemoryPricingStore }

var _ repository.CompanyProductRepository = (*inMemoryLedgerRepo)(nil)

func (r *inMemoryLedgerRepo) Create(_ context.Context, cp *entity.CompanyProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dup := lo.ContainsBy(lo.Values(r.s.ledger), func(e *entity.CompanyProduct) bool {
		return e.CompanyID == cp.CompanyID && e.ProductID == cp.ProductID
	})
	if dup {
		return domain.ErrDuplicate
	}
	r.s.ledger[cp.ID] = cloneCompanyProduct(cp)
	return nil
}

func (r *inMemoryLedgerRepo) GetByID(_ context.Context, id string) (*entity.CompanyProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneCompanyProduct(r.s.ledger[id]), nil
}

func (r *inMemoryLedgerRepo) GetForUpdate(ctx context.Context, id string) (*entity.CompanyProduct, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryLedgerRepo) ListByCompany(_ context.Context, companyID string, onlyEnabled bool, limit, offset int) ([]*entity.CompanyProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := lo.Filter(lo.Values(r.s.ledger), func(cp *entity.CompanyProduct, _ int) bool {
		return cp.CompanyID == companyID && (!onlyEnabled || cp.IsEnabled)
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].ProductName != list[j].ProductName {
			return list[i].ProductName < list[j].ProductName
		}
		return list[i].ID < list[j].ID
	})
	return lo.Map(paginate(list, limit, offset), func(cp *entity.CompanyProduct, _ int) *entity.CompanyProduct {
		return cloneCompanyProduct(cp)
	}), nil
}

func (r *inMemoryLedgerRepo) UpdatePriceAndExpiry(_ context.Context, id string, price decimal.Decimal, expiry *time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp, ok := r.s.ledger[id]
	if !ok {
		return domain.ErrNotFound
	}
	updated := cloneCompanyProduct(cp)
	updated.Price = &price
	if expiry != nil {
		e := *expiry
		updated.QuotationExpiryDate = &e
	}
	updated.UpdatedAt = time.Now()
	r.s.ledger[id] = updated
	return nil
}

// --- programaciones ---

type inMemoryScheduleRepo struct{ s *InMemoryPricingStore }

var _ repository.PriceScheduleRepository = (*inMemoryScheduleRepo)(nil)

func (r *inMemoryScheduleRepo) Create(_ context.Context, ps *entity.PriceSchedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.ledger[ps.CompanyProductID]; !ok {
		return domain.ErrNotFound
	}
	r.s.schedules[ps.ID] = cloneSchedule(ps)
	return nil
}

func (r *inMemoryScheduleRepo) GetByID(_ context.Context, id string) (*entity.PriceSchedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cloneSchedule(r.s.schedules[id]), nil
}

func (r *inMemoryScheduleRepo) List(_ context.Context, f repository.PriceScheduleFilter) ([]*entity.PriceSchedule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := lo.Filter(lo.Values(r.s.schedules), func(ps *entity.PriceSchedule, _ int) bool {
		if f.CompanyID != "" {
			cp, ok := r.s.ledger[ps.CompanyProductID]
			if !ok || cp.CompanyID != f.CompanyID {
				return false
			}
		}
		switch f.Status {
		case "pending":
			return !ps.IsApplied
		case "applied":
			return ps.IsApplied
		}
		return true
	})
	sortSchedules(list)
	return lo.Map(paginate(list, f.Limit, f.Offset), func(ps *entity.PriceSchedule, _ int) *entity.PriceSchedule {
		return cloneSchedule(ps)
	}), nil
}

func (r *inMemoryScheduleRepo) FindDueUnapplied(_ context.Context, now time.Time) ([]*entity.PriceSchedule, error) {
	if err := r.s.FailFind; err != nil {
		r.s.FailFind = nil
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	due := lo.Filter(lo.Values(r.s.schedules), func(ps *entity.PriceSchedule, _ int) bool {
		return ps.IsDue(now)
	})
	sortSchedules(due)
	return lo.Map(due, func(ps *entity.PriceSchedule, _ int) *entity.PriceSchedule { return cloneSchedule(ps) }), nil
}

func (r *inMemoryScheduleRepo) MarkApplied(_ context.Context, id string, appliedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ps, ok := r.s.schedules[id]
	if !ok {
		return domain.ErrNotFound
	}
	if ps.IsApplied {
		return domain.ErrScheduleAlreadyApplied
	}
	updated := cloneSchedule(ps)
	updated.IsApplied = true
	updated.AppliedAt = &appliedAt
	updated.UpdatedAt = appliedAt
	r.s.schedules[id] = updated
	return nil
}

func (r *inMemoryScheduleRepo) DeletePending(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ps, ok := r.s.schedules[id]
	if !ok {
		return domain.ErrNotFound
	}
	if ps.IsApplied {
		return domain.ErrScheduleAlreadyApplied
	}
	delete(r.s.schedules, id)
	return nil
}

// --- bitácora ---

type inMemoryAuditRepo struct{ s *InMemoryPricingStore }

var _ repository.AuditLogRepository = (*inMemoryAuditRepo)(nil)

func (r *inMemoryAuditRepo) Create(_ context.Context, e *entity.AuditLog) error {
	if r.s.AuditHook != nil {
		if err := r.s.AuditHook(e); err != nil {
			return err
		}
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry := *e
	r.s.audit = append(r.s.audit, &entry)
	return nil
}

func (r *inMemoryAuditRepo) List(_ context.Context, f repository.AuditLogFilter) ([]*entity.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := lo.Filter(r.s.audit, func(e *entity.AuditLog, _ int) bool {
		return (f.TargetType == "" || e.TargetType == f.TargetType) &&
			(f.TargetID == "" || e.TargetID == f.TargetID) &&
			(f.Action == "" || e.Action == f.Action)
	})
	list = lo.Reverse(list)
	return paginate(list, f.Limit, f.Offset), nil
}

func sortSchedules(list []*entity.PriceSchedule) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].EffectiveDate.Equal(list[j].EffectiveDate) {
			return list[i].EffectiveDate.Before(list[j].EffectiveDate)
		}
		return list[i].ID < list[j].ID
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func cloneCompanyProduct(cp *entity.CompanyProduct) *entity.CompanyProduct {
	if cp == nil {
		return nil
	}
	c := *cp
	return &c
}

func cloneSchedule(ps *entity.PriceSchedule) *entity.PriceSchedule {
	if ps == nil {
		return nil
	}
	c := *ps
	return &c
}
