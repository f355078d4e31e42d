package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
)

// companyLookup es el contrato mínimo que necesita el middleware para verificar la empresa.
// Lo implementa *usecase.CompanyUseCase; el uso de interfaz evita el import circular.
type companyLookup interface {
	GetByID(ctx context.Context, id string) (*dto.CompanyResponse, error)
}

// RequireActiveCompany verifica que la empresa del token JWT exista y esté activa.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalCompanyID).
//
// Comportamiento:
//   - 401 si no hay company_id en el contexto.
//   - 403 si la empresa no existe o está suspendida/inactiva.
//   - 503 si falla la consulta.
func RequireActiveCompany(companies companyLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID := GetCompanyID(c)
		if companyID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "company_id no encontrado en el token",
			})
		}

		company, err := companies.GetByID(c.UserContext(), companyID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "COMPANY_CHECK_FAILED",
				Message: "no se pudo verificar la empresa, intente más tarde",
			})
		}

		if company == nil || company.Status != entity.CompanyStatusActive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "COMPANY_INACTIVE",
				Message: "la empresa no está activa",
			})
		}

		return c.Next()
	}
}
