package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/application/usecase"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/testutil"
)

const testActorID = "00000000-0000-0000-0000-0000000000aa"

type ledgerFixture struct {
	store     *testutil.InMemoryPricingStore
	companies *testutil.InMemoryCompanyStore
	products  *testutil.InMemoryProductStore
	uc        *usecase.CompanyProductUseCase
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	f := &ledgerFixture{
		store:     testutil.NewInMemoryPricingStore(),
		companies: testutil.NewInMemoryCompanyStore(),
		products:  testutil.NewInMemoryProductStore(),
	}
	ctx := context.Background()
	require.NoError(t, f.companies.Create(ctx, &entity.Company{ID: "c-1", Name: "Minera del Norte", NIT: "900111222", Status: entity.CompanyStatusActive}))
	require.NoError(t, f.products.Create(ctx, &entity.Product{ID: "p-1", Code: "HD-1540", Name: "Aceite Diesel 15W-40", UnitMeasure: "gal", Status: "active"}))
	f.uc = usecase.NewCompanyProductUseCase(f.store, f.store.Repos().Ledger, f.companies, f.products)
	return f
}

func TestCompanyProductEnable_CreaEntradaUnicaPorPar(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	out, err := f.uc.Enable(ctx, dto.EnableCompanyProductRequest{CompanyID: "c-1", ProductID: "p-1"})
	require.NoError(t, err)
	assert.Nil(t, out.Price, "sin precio inicial")
	assert.True(t, out.IsEnabled)
	assert.Equal(t, "Minera del Norte", out.CompanyName)
	assert.Equal(t, "HD-1540", out.ProductCode)

	_, err = f.uc.Enable(ctx, dto.EnableCompanyProductRequest{CompanyID: "c-1", ProductID: "p-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.uc.Enable(ctx, dto.EnableCompanyProductRequest{CompanyID: "c-x", ProductID: "p-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	zero := decimal.Zero
	_, err = f.uc.Enable(ctx, dto.EnableCompanyProductRequest{CompanyID: "c-1", ProductID: "p-1", Price: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
}

func TestCompanyProductUpdatePrice_DejaBitacora(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	initial := decimal.NewFromInt(100)
	cp, err := f.uc.Enable(ctx, dto.EnableCompanyProductRequest{CompanyID: "c-1", ProductID: "p-1", Price: &initial})
	require.NoError(t, err)

	expiry := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	out, err := f.uc.UpdatePrice(ctx, testActorID, cp.ID, dto.UpdateCompanyProductPriceRequest{
		Price:               decimal.RequireFromString("112.40"),
		QuotationExpiryDate: &expiry,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Price)
	assert.True(t, decimal.RequireFromString("112.40").Equal(*out.Price))
	require.NotNil(t, out.QuotationExpiryDate)
	assert.True(t, expiry.Equal(*out.QuotationExpiryDate))

	entries := f.store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditActionUpdatePrice, entries[0].Action)
	assert.Equal(t, cp.ID, entries[0].TargetID)
	assert.Contains(t, entries[0].Details, "100.00 → 112.40")
}

func TestCompanyProductUpdatePrice_Errores(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	_, err := f.uc.UpdatePrice(ctx, testActorID, "no-existe", dto.UpdateCompanyProductPriceRequest{Price: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.UpdatePrice(ctx, testActorID, "no-existe", dto.UpdateCompanyProductPriceRequest{Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = f.uc.UpdatePrice(ctx, testActorID, "no-existe", dto.UpdateCompanyProductPriceRequest{Price: decimal.RequireFromString("0.001")})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice, "la columna solo guarda dos decimales")
	assert.Empty(t, f.store.AuditEntries())
}

func TestCompanyProductListByCompany_SoloHabilitados(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	f.store.AddCompanyProduct(&entity.CompanyProduct{ID: "cp-off", CompanyID: "c-1", ProductID: "p-2", IsEnabled: false, ProductName: "Grasa EP2"})
	_, err := f.uc.Enable(ctx, dto.EnableCompanyProductRequest{CompanyID: "c-1", ProductID: "p-1"})
	require.NoError(t, err)

	all, err := f.uc.ListByCompany(ctx, "c-1", false, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	enabled, err := f.uc.ListByCompany(ctx, "c-1", true, 20, 0)
	require.NoError(t, err)
	require.Len(t, enabled.Items, 1)
	assert.Equal(t, "Aceite Diesel 15W-40", enabled.Items[0].ProductName)
}
