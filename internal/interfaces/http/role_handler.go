package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/application/usecase"
	"github.com/jhoicas/Rondas-api/internal/domain"
)

// RoleHandler lectura del rol propio y mutaciones privilegiadas de rol.
// Las mutaciones responden siempre {success: bool}: el motivo de un fallo
// (rol inválido, auto-escalamiento, fallo del store) queda en el log interno
// y nunca viaja en la respuesta.
type RoleHandler struct {
	uc *usecase.RoleUseCase
}

// NewRoleHandler construye el handler de roles.
func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// Me godoc
// @Summary      Leer la asignación de rol propia
// @Tags         roles
// @Produce      json
// @Success      200  {object}  dto.RoleResponse
// @Failure      404  {object}  dto.ErrorResponse  "sin asignación de rol"
// @Router       /api/roles/me [get]
func (h *RoleHandler) Me(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad requerida"})
	}
	out, err := h.uc.OwnRole(userID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin asignación de rol"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo leer el rol"})
	}
	return c.JSON(out)
}

// Change godoc
// @Summary      Mutar el rol de otra identidad (solo admin)
// @Tags         roles
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "target user id"
// @Param        body  body  dto.ChangeRoleRequest  true  "role, location_access"
// @Success      200   {object}  dto.ChangeRoleResponse
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) Change(c *fiber.Ctx) error {
	actor, err := h.uc.ActorFrom(GetUserID(c))
	if err != nil {
		return actorError(c, err)
	}
	var in dto.ChangeRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ok := h.uc.ChangeRole(c.Context(), actor, c.Params("id"), in)
	return c.JSON(dto.ChangeRoleResponse{Success: ok})
}

// Remove godoc
// @Summary      Eliminar la asignación de rol de otra identidad (solo admin)
// @Tags         roles
// @Produce      json
// @Param        id  path  string  true  "target user id"
// @Success      200  {object}  dto.ChangeRoleResponse
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) Remove(c *fiber.Ctx) error {
	actor, err := h.uc.ActorFrom(GetUserID(c))
	if err != nil {
		return actorError(c, err)
	}
	ok := h.uc.RemoveRole(c.Context(), actor, c.Params("id"))
	return c.JSON(dto.ChangeRoleResponse{Success: ok})
}
