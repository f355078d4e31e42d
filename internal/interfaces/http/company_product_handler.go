package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/application/usecase"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
)

// CompanyProductHandler libro de precios por empresa y catálogo del comprador.
type CompanyProductHandler struct {
	uc *usecase.CompanyProductUseCase
}

// NewCompanyProductHandler construye el handler.
func NewCompanyProductHandler(uc *usecase.CompanyProductUseCase) *CompanyProductHandler {
	return &CompanyProductHandler{uc: uc}
}

// Enable godoc
// @Summary      Habilitar producto para una empresa
// @Tags         company-products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnableCompanyProductRequest  true  "empresa, producto y precio inicial opcional"
// @Success      201   {object}  dto.CompanyProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/company-products [post]
func (h *CompanyProductHandler) Enable(c *fiber.Ctx) error {
	var in dto.EnableCompanyProductRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Enable(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPrice):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PRICE", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "empresa o producto no encontrado"})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el producto ya está habilitado para la empresa"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdatePrice godoc
// @Summary      Editar precio vigente
// @Tags         company-products
// @Accept       json
// @Produce      json
// @Param        id    path  string                                true  "ID del producto de empresa"
// @Param        body  body  dto.UpdateCompanyProductPriceRequest  true  "precio y vigencia opcional"
// @Success      200   {object}  dto.CompanyProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/company-products/{id}/price [put]
func (h *CompanyProductHandler) UpdatePrice(c *fiber.Ctx) error {
	var in dto.UpdateCompanyProductPriceRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdatePrice(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPrice):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PRICE", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto de empresa no encontrado"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// Catalog godoc
// @Summary      Catálogo de la empresa del usuario
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  dto.CompanyProductListResponse
// @Router       /api/catalog [get]
func (h *CompanyProductHandler) Catalog(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListByCompany(c.UserContext(), GetCompanyID(c), true, limit, offset)
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}
