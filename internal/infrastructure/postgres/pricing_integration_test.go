//go:build integration

package postgres_test

// Pruebas contra PostgreSQL real (testcontainers).
// Ejecutar con: go test -tags integration ./internal/infrastructure/postgres/... -v

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Lubricantes-api/pkg/config"
)

// ── Setup ────────────────────────────────────────────────────────────────────

type pgEnv struct {
	pool    *pgxpool.Pool
	actorID string
	company *entity.Company
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("lubricantes_test"),
		tcPostgres.WithUsername("lubricantes"),
		tcPostgres.WithPassword("lubricantes"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	require.NoError(t, postgres.Migrate(ctx, pool), "las migraciones son idempotentes")

	company := &entity.Company{ID: uuid.New().String(), Name: "Transportes Andinos", NIT: "900123456", Status: entity.CompanyStatusActive}
	require.NoError(t, postgres.NewCompanyRepository(pool).Create(ctx, company))

	actor := &entity.User{
		ID: uuid.New().String(), CompanyID: company.ID, Email: "admin@lubricantes.test",
		PasswordHash: "x", Name: "Admin", Role: entity.RoleAdmin, Status: "active",
	}
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, actor))

	return &pgEnv{pool: pool, actorID: actor.ID, company: company}
}

func (e *pgEnv) seedLedger(t *testing.T, name string, price *decimal.Decimal) *entity.CompanyProduct {
	t.Helper()
	ctx := context.Background()
	p := &entity.Product{
		ID: uuid.New().String(), Code: "P-" + uuid.NewString()[:8], Name: name,
		UnitMeasure: "L", Status: "active",
	}
	require.NoError(t, postgres.NewProductRepository(e.pool).Create(ctx, p))
	cp := &entity.CompanyProduct{
		ID: uuid.New().String(), CompanyID: e.company.ID, ProductID: p.ID, Price: price, IsEnabled: true,
	}
	require.NoError(t, postgres.NewCompanyProductRepository(e.pool).Create(ctx, cp))
	return cp
}

func (e *pgEnv) seedSchedule(t *testing.T, cpID string, price int64, effective time.Time, expiry *time.Time) *entity.PriceSchedule {
	t.Helper()
	s := &entity.PriceSchedule{
		ID: uuid.New().String(), CompanyProductID: cpID, ScheduledPrice: decimal.NewFromInt(price),
		EffectiveDate: effective, ExpiryDate: expiry, CreatedBy: e.actorID,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, postgres.NewPriceScheduleRepository(e.pool).Create(context.Background(), s))
	return s
}

func (e *pgEnv) ledger(t *testing.T, id string) *entity.CompanyProduct {
	t.Helper()
	cp, err := postgres.NewCompanyProductRepository(e.pool).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, cp)
	return cp
}

func (e *pgEnv) schedule(t *testing.T, id string) *entity.PriceSchedule {
	t.Helper()
	s, err := postgres.NewPriceScheduleRepository(e.pool).GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, s)
	return s
}

func (e *pgEnv) countAudit(t *testing.T, action string) int {
	t.Helper()
	var n int
	require.NoError(t, e.pool.QueryRow(context.Background(),
		`SELECT count(*) FROM audit_logs WHERE action = $1`, action).Scan(&n))
	return n
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestApplyDueSchedules_Postgres_AplicaYAudita(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	old := decimal.NewFromInt(100)
	cp := env.seedLedger(t, "Aceite 15W-40", &old)
	expiry := now.Add(90 * 24 * time.Hour)
	due := env.seedSchedule(t, cp.ID, 118, now.Add(-time.Hour), &expiry)
	future := env.seedSchedule(t, cp.ID, 130, now.Add(24*time.Hour), nil)

	uc := pricing.NewApplyScheduledPricesUseCase(postgres.NewTxRunner(env.pool), nil, nil)
	summary, err := uc.ApplyDueSchedules(ctx, now, env.actorID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AppliedCount)
	assert.Equal(t, 0, summary.FailedCount)
	assert.Equal(t, "Aceite 15W-40", summary.Details[0].ProductName)
	assert.Equal(t, "Transportes Andinos", summary.Details[0].CompanyName)

	got := env.ledger(t, cp.ID)
	require.NotNil(t, got.Price)
	assert.True(t, decimal.NewFromInt(118).Equal(*got.Price))
	require.NotNil(t, got.QuotationExpiryDate)
	assert.True(t, expiry.Equal(*got.QuotationExpiryDate))

	assert.True(t, env.schedule(t, due.ID).IsApplied)
	assert.False(t, env.schedule(t, future.ID).IsApplied)
	assert.Equal(t, 1, env.countAudit(t, entity.AuditActionApplyScheduledPrice))

	again, err := uc.ApplyDueSchedules(ctx, now, env.actorID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.AppliedCount+again.FailedCount)
	assert.Equal(t, 1, env.countAudit(t, entity.AuditActionApplyScheduledPrice))
}

func TestApplyDueSchedules_Postgres_FalloDeItemSoloRevierteEseItem(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC()

	okRow := env.seedLedger(t, "Grasa EP2", nil)
	badRow := env.seedLedger(t, "Aceite hidráulico", nil)
	okSched := env.seedSchedule(t, okRow.ID, 80, now.Add(-2*time.Hour), nil)
	badSched := env.seedSchedule(t, badRow.ID, 95, now.Add(-time.Hour), nil)

	// Falla forzada al actualizar una fila concreta del libro.
	_, err := env.pool.Exec(ctx, fmt.Sprintf(`
		CREATE FUNCTION reject_test_row() RETURNS trigger AS $$
		BEGIN
			IF NEW.id = '%s' THEN
				RAISE EXCEPTION 'fila bloqueada para la prueba';
			END IF;
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql;
		CREATE TRIGGER trg_reject_test_row BEFORE UPDATE ON company_products
			FOR EACH ROW EXECUTE FUNCTION reject_test_row();`, badRow.ID))
	require.NoError(t, err)

	uc := pricing.NewApplyScheduledPricesUseCase(postgres.NewTxRunner(env.pool), nil, nil)
	summary, err := uc.ApplyDueSchedules(ctx, now, env.actorID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.AppliedCount)
	assert.Equal(t, 1, summary.FailedCount)
	assert.True(t, summary.Details[0].Success)
	assert.False(t, summary.Details[1].Success)
	assert.NotEmpty(t, summary.Details[1].Error)

	assert.True(t, env.schedule(t, okSched.ID).IsApplied)
	assert.False(t, env.schedule(t, badSched.ID).IsApplied, "el ítem fallido queda pendiente")
	assert.Nil(t, env.ledger(t, badRow.ID).Price)
	assert.Equal(t, 1, env.countAudit(t, entity.AuditActionApplyScheduledPrice))
}

func TestApplyDueSchedules_Postgres_LotesConcurrentesNoDuplican(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC()

	const rows = 5
	for i := 0; i < rows; i++ {
		cp := env.seedLedger(t, fmt.Sprintf("Producto %d", i), nil)
		env.seedSchedule(t, cp.ID, int64(10+i), now.Add(-time.Duration(i+1)*time.Minute), nil)
	}

	uc := pricing.NewApplyScheduledPricesUseCase(postgres.NewTxRunner(env.pool), nil, nil)
	const runs = 6
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := uc.ApplyDueSchedules(ctx, now, env.actorID)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, 0, summary.FailedCount)
			mu.Lock()
			total += summary.AppliedCount
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, rows, total, "cada programación se aplica exactamente una vez")
	assert.Equal(t, rows, env.countAudit(t, entity.AuditActionApplyScheduledPrice))
}

func TestTxRunner_SinConexionEsErrSelection(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	cp := env.seedLedger(t, "Aceite 10W-30", nil)
	env.seedSchedule(t, cp.ID, 55, time.Now().Add(-time.Minute), nil)

	// Un pool cerrado no puede abrir la transacción del lote.
	closed, err := pgxpool.New(ctx, env.pool.Config().ConnString())
	require.NoError(t, err)
	closed.Close()

	uc := pricing.NewApplyScheduledPricesUseCase(postgres.NewTxRunner(closed), nil, nil)
	summary, err := uc.ApplyDueSchedules(ctx, time.Now(), env.actorID)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, pricing.ErrSelection)
	assert.NotErrorIs(t, err, pricing.ErrTxAborted)
	assert.Equal(t, 0, env.countAudit(t, entity.AuditActionApplyScheduledPrice))
}

func TestMarkApplied_CompareAndSet(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	cp := env.seedLedger(t, "Refrigerante", nil)
	s := env.seedSchedule(t, cp.ID, 40, time.Now().Add(-time.Minute), nil)

	repo := postgres.NewPriceScheduleRepository(env.pool)
	require.NoError(t, repo.MarkApplied(ctx, s.ID, time.Now()))
	assert.ErrorIs(t, repo.MarkApplied(ctx, s.ID, time.Now()), domain.ErrScheduleAlreadyApplied)

	_, err := env.pool.Exec(ctx, `UPDATE price_schedules SET is_applied = false WHERE id = $1`, s.ID)
	assert.Error(t, err, "is_applied no puede volver a false")

	assert.ErrorIs(t, repo.DeletePending(ctx, s.ID), domain.ErrScheduleAlreadyApplied)
	assert.ErrorIs(t, repo.DeletePending(ctx, uuid.New().String()), domain.ErrNotFound)
}

func TestUpdatePriceAndExpiry_ExpiryNilConservaVigencia(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	price := decimal.NewFromInt(10)
	cp := env.seedLedger(t, "Aceite 2T", &price)
	repo := postgres.NewCompanyProductRepository(env.pool)

	expiry := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	require.NoError(t, repo.UpdatePriceAndExpiry(ctx, cp.ID, decimal.NewFromInt(12), &expiry))
	require.NoError(t, repo.UpdatePriceAndExpiry(ctx, cp.ID, decimal.NewFromInt(14), nil))

	got := env.ledger(t, cp.ID)
	assert.True(t, decimal.NewFromInt(14).Equal(*got.Price))
	require.NotNil(t, got.QuotationExpiryDate)
	assert.True(t, expiry.Equal(*got.QuotationExpiryDate))

	assert.ErrorIs(t, repo.UpdatePriceAndExpiry(ctx, uuid.New().String(), price, nil), domain.ErrNotFound)
}

func TestCompanyProduct_ParDuplicado(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	cp := env.seedLedger(t, "Aceite 20W-50", nil)

	dup := &entity.CompanyProduct{ID: uuid.New().String(), CompanyID: cp.CompanyID, ProductID: cp.ProductID, IsEnabled: true}
	assert.ErrorIs(t, postgres.NewCompanyProductRepository(env.pool).Create(ctx, dup), domain.ErrDuplicate)
}
