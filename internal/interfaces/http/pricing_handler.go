package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Lubricantes-api/internal/application/dto"
	"github.com/jhoicas/Lubricantes-api/internal/application/pricing"
	"github.com/jhoicas/Lubricantes-api/internal/domain"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// BatchApplier lo implementa *pricing.ApplyScheduledPricesUseCase.
type BatchApplier interface {
	ApplyDueSchedules(ctx context.Context, now time.Time, actorID string) (*dto.BatchSummary, error)
}

// PricingHandler programaciones de precio y disparo manual del lote.
type PricingHandler struct {
	schedules *pricing.ScheduleUseCase
	applier   BatchApplier
	now       func() time.Time
}

// NewPricingHandler construye el handler.
func NewPricingHandler(schedules *pricing.ScheduleUseCase, applier BatchApplier) *PricingHandler {
	return &PricingHandler{schedules: schedules, applier: applier, now: time.Now}
}

// CreateSchedule godoc
// @Summary      Programar cambio de precio
// @Tags         price-schedules
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePriceScheduleRequest  true  "producto de empresa, precio y fechas"
// @Success      201   {object}  dto.PriceScheduleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/price-schedules [post]
func (h *PricingHandler) CreateSchedule(c *fiber.Ctx) error {
	var in dto.CreatePriceScheduleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.schedules.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidPrice):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PRICE", Message: err.Error()})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto de empresa no encontrado"})
		}
		return internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSchedules godoc
// @Summary      Listar programaciones
// @Tags         price-schedules
// @Produce      json
// @Param        company_id  query  string  false  "Filtrar por empresa"
// @Param        status      query  string  false  "pending | applied"
// @Success      200  {object}  dto.PriceScheduleListResponse
// @Router       /api/admin/price-schedules [get]
func (h *PricingHandler) ListSchedules(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.schedules.List(c.UserContext(), repository.PriceScheduleFilter{
		CompanyID: c.Query("company_id"),
		Status:    c.Query("status"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status debe ser pending o applied"})
		}
		return internalError(c, err)
	}
	return c.JSON(out)
}

// CancelSchedule godoc
// @Summary      Cancelar programación pendiente
// @Tags         price-schedules
// @Param        id  path  string  true  "ID de la programación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/price-schedules/{id} [delete]
func (h *PricingHandler) CancelSchedule(c *fiber.Ctx) error {
	err := h.schedules.Cancel(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "programación no encontrada"})
		case errors.Is(err, domain.ErrScheduleAlreadyApplied):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_APPLIED", Message: err.Error()})
		}
		return internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Apply godoc
// @Summary      Aplicar precios programados vencidos
// @Description  Ejecuta un lote con la hora actual. Los fallos por ítem van en details; un error de
// @Description  invocación significa que no se aplicó nada.
// @Tags         price-schedules
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplySchedulesRequest  true  "{\"action\":\"apply_schedules\"}"
// @Success      200   {object}  dto.ApplySchedulesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/admin/price-schedules/apply [post]
func (h *PricingHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplySchedulesRequest
	if err := c.BodyParser(&in); err != nil || validate.Struct(in) != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ACTION", Message: "acción inválida"})
	}
	summary, err := h.applier.ApplyDueSchedules(c.UserContext(), h.now(), GetUserID(c))
	if err != nil {
		status, body := applyErrorResponse(err)
		return c.Status(status).JSON(body)
	}
	return c.JSON(dto.ApplySchedulesResponse{
		Success:      true,
		Message:      applyMessage(summary),
		BatchSummary: *summary,
	})
}

func applyErrorResponse(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrBatchInProgress):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "BATCH_IN_PROGRESS", Message: "ya hay un lote de precios en ejecución, intente más tarde"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "usuario no identificado"}
	case errors.Is(err, pricing.ErrSelection):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "SELECTION_FAILED", Message: "no se pudieron leer las programaciones; no se aplicó ningún precio"}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "TRANSACTION_ABORTED", Message: "el lote fue revertido; no se aplicó ningún precio"}
	}
}

func applyMessage(s *dto.BatchSummary) string {
	total := s.AppliedCount + s.FailedCount
	if total == 0 {
		return "No hay precios programados pendientes"
	}
	if s.FailedCount == 0 {
		return fmt.Sprintf("Se aplicaron %d precios programados", s.AppliedCount)
	}
	return fmt.Sprintf("Se aplicaron %d de %d precios programados; %d fallaron", s.AppliedCount, total, s.FailedCount)
}
