package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/application/usecase"
	"github.com/jhoicas/Rondas-api/internal/domain"
)

// RoundHandler lecturas y mantenimiento de rondas persistidas. La visibilidad
// fila a fila la decide el caso de uso con el rol leído de la base, no el JWT.
type RoundHandler struct {
	uc     *usecase.RoundUseCase
	roleUC *usecase.RoleUseCase
}

// NewRoundHandler construye el handler de rondas.
func NewRoundHandler(uc *usecase.RoundUseCase, roleUC *usecase.RoleUseCase) *RoundHandler {
	return &RoundHandler{uc: uc, roleUC: roleUC}
}

// List godoc
// @Summary      Listar las rondas visibles para el solicitante
// @Tags         rounds
// @Produce      json
// @Param        limit   query  int  false  "máximo 100, default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {object}  dto.RoundListResponse
// @Router       /api/rounds [get]
func (h *RoundHandler) List(c *fiber.Ctx) error {
	actor, err := h.roleUC.ActorFrom(GetUserID(c))
	if err != nil {
		return actorError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	out, err := h.uc.ListVisible(actor, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudieron listar las rondas"})
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener una ronda
// @Tags         rounds
// @Produce      json
// @Param        id  path  string  true  "round id"
// @Success      200  {object}  dto.RoundResponse
// @Failure      404  {object}  dto.ErrorResponse  "inexistente o fuera de la visibilidad del solicitante"
// @Router       /api/rounds/{id} [get]
func (h *RoundHandler) Get(c *fiber.Ctx) error {
	actor, err := h.roleUC.ActorFrom(GetUserID(c))
	if err != nil {
		return actorError(c, err)
	}
	out, err := h.uc.GetByID(actor, c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo obtener la ronda"})
	}
	if out == nil {
		// Denegada e inexistente responden igual.
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ronda no encontrada"})
	}
	return c.JSON(out)
}

// Photo godoc
// @Summary      Descargar la foto de una ronda
// @Tags         rounds
// @Produce      octet-stream
// @Param        id  path  string  true  "round id"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rounds/{id}/photo [get]
func (h *RoundHandler) Photo(c *fiber.Ctx) error {
	actor, err := h.roleUC.ActorFrom(GetUserID(c))
	if err != nil {
		return actorError(c, err)
	}
	data, name, err := h.uc.Photo(actor, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ronda no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo descargar la foto"})
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	return c.Send(data)
}

// Update godoc
// @Summary      Editar campos de texto de una ronda propia
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "round id"
// @Param        body  body  dto.UpdateRoundRequest  true  "guard_name, employee_id"
// @Success      200  {object}  dto.RoundResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rounds/{id} [put]
func (h *RoundHandler) Update(c *fiber.Ctx) error {
	actor, err := h.roleUC.ActorFrom(GetUserID(c))
	if err != nil {
		return actorError(c, err)
	}
	var in dto.UpdateRoundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(actor, c.Params("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el dueño puede editar la ronda"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo vacío tras sanitizar o demasiado largo"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo actualizar la ronda"})
		}
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ronda no encontrada"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar una ronda propia
// @Tags         rounds
// @Param        id  path  string  true  "round id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/rounds/{id} [delete]
func (h *RoundHandler) Delete(c *fiber.Ctx) error {
	actor, err := h.roleUC.ActorFrom(GetUserID(c))
	if err != nil {
		return actorError(c, err)
	}
	if err := h.uc.Delete(actor, c.Params("id")); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ronda no encontrada"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el dueño puede eliminar la ronda"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo eliminar la ronda"})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// actorError mapea fallos al armar el Actor desde la base.
func actorError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad requerida"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo resolver el rol del solicitante"})
}
