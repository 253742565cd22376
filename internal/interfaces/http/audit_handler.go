package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/application/usecase"
	"github.com/jhoicas/Rondas-api/internal/domain"
)

// AuditHandler lectura de la bitácora de cambios de rol (append-only).
type AuditHandler struct {
	uc *usecase.RoleUseCase
}

// NewAuditHandler construye el handler de bitácora.
func NewAuditHandler(uc *usecase.RoleUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Listar la bitácora de cambios de rol (solo admin)
// @Tags         audit
// @Produce      json
// @Param        limit   query  int  false  "máximo 100, default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {object}  dto.AuditListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	actor, err := h.uc.ActorFrom(GetUserID(c))
	if err != nil {
		return actorError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	out, err := h.uc.ListAudit(actor, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la bitácora es solo para admins"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo leer la bitácora"})
	}
	return c.JSON(out)
}
