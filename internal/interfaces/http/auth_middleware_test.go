package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Lubricantes-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Lubricantes-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "lubricantes-api-test"
	testExpMin    = 60
)

// bearer firma un token con los datos indicados y devuelve el header Authorization.
func bearer(t *testing.T, userID, companyID, role string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, companyID, role, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// tokenForRole token del usuario y empresa de prueba con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	return bearer(t, testUserID, testCompanyID, role, testExpMin)
}

// send lanza la petición con el header Authorization tal cual (vacío = sin header).
func send(t *testing.T, app *fiber.App, method, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func jsonReader(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	decodeBody(t, resp, &body)
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardas del router: lote de precios y catálogo
// ──────────────────────────────────────────────────────────────────────────────

// El disparo del lote es solo del back office; cualquier otro rol o token malo no ejecuta nada.
func TestApplyRoute_SoloAdmin(t *testing.T) {
	cases := []struct {
		name   string
		header func(t *testing.T) string
		status int
		code   string
	}{
		{"comprador", func(t *testing.T) string { return tokenForRole(t, entity.RoleComprador) }, http.StatusForbidden, "FORBIDDEN"},
		{"aprobador", func(t *testing.T) string { return tokenForRole(t, entity.RoleAprobador) }, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", func(t *testing.T) string { return tokenForRole(t, "") }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin header", func(*testing.T) string { return "" }, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"sin prefijo Bearer", func(*testing.T) string { return "abc.def.ghi" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token expirado", func(t *testing.T) string { return bearer(t, testUserID, testCompanyID, entity.RoleAdmin, -1) }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"firma ajena", func(t *testing.T) string {
			tok, err := pkgjwt.Generate("otro-secret", testUserID, testCompanyID, entity.RoleAdmin, testIssuer, testExpMin)
			require.NoError(t, err)
			return "Bearer " + tok
		}, http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := buildAPI(t, nil)
			seedDue(env.store)

			resp := send(t, env.app, http.MethodPost, "/api/admin/price-schedules/apply", tc.header(t))
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
			assert.False(t, env.store.Schedule("s-1").IsApplied)
			assert.Empty(t, env.store.AuditEntries())
		})
	}
}

func TestCatalogRoute_AdmiteLosTresRoles(t *testing.T) {
	env := buildAPI(t, nil)
	seedDue(env.store)

	for _, role := range []string{entity.RoleAdmin, entity.RoleComprador, entity.RoleAprobador} {
		t.Run(role, func(t *testing.T) {
			resp := send(t, env.app, http.MethodGet, "/api/catalog", tokenForRole(t, role))
			require.Equal(t, http.StatusOK, resp.StatusCode)
			var catalog dto.CompanyProductListResponse
			decodeBody(t, resp, &catalog)
			assert.Len(t, catalog.Items, 1)
		})
	}

	resp := send(t, env.app, http.MethodGet, "/api/catalog", tokenForRole(t, "bodeguero"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "rol desconocido")
	resp.Body.Close()
}

// El actor de la bitácora sale del token, no del cuerpo.
func TestApplyRoute_ActorDelToken(t *testing.T) {
	env := buildAPI(t, nil)
	seedDue(env.store)
	const otherAdmin = "00000000-0000-0000-0000-0000000000ad"

	app := env.app
	req := httptest.NewRequest(http.MethodPost, "/api/admin/price-schedules/apply",
		jsonReader(t, map[string]string{"action": dto.ActionApplySchedules, "actor_id": testUserID}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, otherAdmin, testCompanyID, entity.RoleAdmin, testExpMin))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := env.store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, otherAdmin, entries[0].ActorID)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireActiveCompany
// ──────────────────────────────────────────────────────────────────────────────

type fakeCompanyLookup struct {
	company *dto.CompanyResponse
	err     error
	calls   int
}

func (f *fakeCompanyLookup) GetByID(_ context.Context, _ string) (*dto.CompanyResponse, error) {
	f.calls++
	return f.company, f.err
}

func buildCompanyGuardApp(lookup *fakeCompanyLookup) *fiber.App {
	app := fiber.New()
	app.Get("/catalog",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireActiveCompany(lookup),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireActiveCompany(t *testing.T) {
	cases := []struct {
		name   string
		lookup *fakeCompanyLookup
		status int
		code   string
	}{
		{"empresa activa", &fakeCompanyLookup{company: &dto.CompanyResponse{ID: testCompanyID, Status: entity.CompanyStatusActive}}, http.StatusOK, ""},
		{"empresa suspendida", &fakeCompanyLookup{company: &dto.CompanyResponse{ID: testCompanyID, Status: entity.CompanyStatusSuspended}}, http.StatusForbidden, "COMPANY_INACTIVE"},
		{"empresa inactiva", &fakeCompanyLookup{company: &dto.CompanyResponse{ID: testCompanyID, Status: entity.CompanyStatusInactive}}, http.StatusForbidden, "COMPANY_INACTIVE"},
		{"empresa inexistente", &fakeCompanyLookup{}, http.StatusForbidden, "COMPANY_INACTIVE"},
		{"consulta fallida", &fakeCompanyLookup{err: errors.New("conexión rechazada")}, http.StatusServiceUnavailable, "COMPANY_CHECK_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := send(t, buildCompanyGuardApp(tc.lookup), http.MethodGet, "/catalog", tokenForRole(t, entity.RoleComprador))
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				assert.Equal(t, tc.code, errorCode(t, resp))
			} else {
				resp.Body.Close()
			}
			assert.Equal(t, 1, tc.lookup.calls)
		})
	}
}

func TestRequireActiveCompany_TokenSinEmpresa(t *testing.T) {
	lookup := &fakeCompanyLookup{}
	resp := send(t, buildCompanyGuardApp(lookup), http.MethodGet, "/catalog", bearer(t, testUserID, "", entity.RoleComprador, testExpMin))

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
	assert.Zero(t, lookup.calls, "sin company_id no se consulta la empresa")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware: claims en Locals
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaClaimsEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	resp := send(t, app, http.MethodGet, "/me", tokenForRole(t, entity.RoleAprobador))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, entity.RoleAprobador, body["role"])
}
