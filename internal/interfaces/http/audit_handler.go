package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Lubricantes-api/internal/application/usecase"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
)

// AuditHandler consulta de la bitácora administrativa.
type AuditHandler struct {
	uc *usecase.AuditUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar bitácora
// @Tags         audit
// @Produce      json
// @Param        target_type  query  string  false  "company_product | price_schedule"
// @Param        target_id    query  string  false  "ID del objetivo"
// @Param        action       query  string  false  "Acción"
// @Success      200  {object}  dto.AuditLogListResponse
// @Router       /api/admin/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.UserContext(), repository.AuditLogFilter{
		TargetType: c.Query("target_type"),
		TargetID:   c.Query("target_id"),
		Action:     c.Query("action"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return internalError(c, err)
	}
	return c.JSON(out)
}
