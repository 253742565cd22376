package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	appcapture "github.com/jhoicas/Rondas-api/internal/application/capture"
	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/application/usecase"
	"github.com/jhoicas/Rondas-api/internal/domain"
	domcapture "github.com/jhoicas/Rondas-api/internal/domain/capture"
	"github.com/jhoicas/Rondas-api/pkg/config"
)

// CaptureHandler expone la máquina de captura: escaneo de esquinas, foto con
// GPS, campos del formulario y envío todo-o-nada.
type CaptureHandler struct {
	uc     *appcapture.UseCase
	roleUC *usecase.RoleUseCase
	limits config.CaptureConfig
}

// NewCaptureHandler construye el handler de captura.
func NewCaptureHandler(uc *appcapture.UseCase, roleUC *usecase.RoleUseCase, limits config.CaptureConfig) *CaptureHandler {
	return &CaptureHandler{uc: uc, roleUC: roleUC, limits: limits}
}

// State godoc
// @Summary      Estado actual de la sesión de captura
// @Tags         capture
// @Produce      json
// @Success      200  {object}  dto.CaptureStateResponse
// @Router       /api/capture/state [get]
func (h *CaptureHandler) State(c *fiber.Ctx) error {
	out, err := h.uc.State(c.Context(), GetUserID(c))
	if err != nil {
		return captureError(c, err)
	}
	return c.JSON(out)
}

// Limits godoc
// @Summary      Límites que el cliente debe respetar
// @Tags         capture
// @Produce      json
// @Success      200  {object}  dto.CaptureLimitsResponse
// @Router       /api/capture/limits [get]
func (h *CaptureHandler) Limits(c *fiber.Ctx) error {
	return c.JSON(dto.CaptureLimitsResponse{
		MaxPhotoBytes:   domcapture.MaxPhotoBytes,
		MaxQRPayloadLen: domcapture.MaxQRPayloadLen,
		GPSWaitSeconds:  h.limits.GPSWaitSeconds,
	})
}

// ScanCorner godoc
// @Summary      Registrar el payload QR de una esquina (0 = esquina activa)
// @Tags         capture
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScanCornerRequest  true  "corner, payload"
// @Success      200   {object}  dto.CaptureStateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/capture/scan [post]
func (h *CaptureHandler) ScanCorner(c *fiber.Ctx) error {
	var in dto.ScanCornerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ScanCorner(c.Context(), GetUserID(c), in)
	if err != nil {
		return captureError(c, err)
	}
	return c.JSON(out)
}

// SelectCorner godoc
// @Summary      Cambiar la esquina activa manualmente
// @Tags         capture
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SelectCornerRequest  true  "corner 1..4"
// @Success      200   {object}  dto.CaptureStateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/capture/corner [post]
func (h *CaptureHandler) SelectCorner(c *fiber.Ctx) error {
	var in dto.SelectCornerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SelectCorner(c.Context(), GetUserID(c), in.Corner)
	if err != nil {
		return captureError(c, err)
	}
	return c.JSON(out)
}

// SetFields godoc
// @Summary      Guardar los campos del formulario de la ronda
// @Tags         capture
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CaptureFieldsRequest  true  "campos de la ronda"
// @Success      200   {object}  dto.CaptureStateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/capture/fields [post]
func (h *CaptureHandler) SetFields(c *fiber.Ctx) error {
	var in dto.CaptureFieldsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.SetFields(c.Context(), GetUserID(c), in)
	if err != nil {
		return captureError(c, err)
	}
	return c.JSON(out)
}

// AttachPhoto godoc
// @Summary      Adjuntar la selfie geoetiquetada (multipart; lat/lng opcionales)
// @Tags         capture
// @Accept       multipart/form-data
// @Produce      json
// @Param        photo  formData  file    true   "imagen, máximo 10MB"
// @Param        lat    formData  string  false  "latitud decimal"
// @Param        lng    formData  string  false  "longitud decimal"
// @Success      200    {object}  dto.CaptureStateResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/capture/photo [post]
func (h *CaptureHandler) AttachPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "foto requerida (campo multipart 'photo')"})
	}
	if fileHeader.Size > domcapture.MaxPhotoBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PHOTO_TOO_LARGE", Message: domcapture.ErrPhotoTooLarge.Error()})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer la foto"})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "no se pudo leer la foto"})
	}

	out, err := h.uc.AttachPhoto(c.Context(), GetUserID(c), fileHeader.Filename, data, c.FormValue("lat"), c.FormValue("lng"))
	if err != nil {
		return captureError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Descartar la sesión de captura en curso
// @Tags         capture
// @Success      204
// @Router       /api/capture [delete]
func (h *CaptureHandler) Cancel(c *fiber.Ctx) error {
	if err := h.uc.Cancel(c.Context(), GetUserID(c)); err != nil {
		return captureError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit godoc
// @Summary      Enviar la ronda (todo-o-nada)
// @Tags         capture
// @Produce      json
// @Success      201  {object}  dto.SubmitResponse
// @Failure      400  {object}  dto.ErrorResponse  "lista completa de precondiciones que fallan"
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse  "fallo del store; la sesión se conserva para reintentar"
// @Router       /api/capture/submit [post]
func (h *CaptureHandler) Submit(c *fiber.Ctx) error {
	actor, err := h.roleUC.ActorFrom(GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad requerida"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo enviar la ronda, intente de nuevo"})
	}
	out, err := h.uc.Submit(c.Context(), actor)
	if err != nil {
		var verr *appcapture.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "la ronda no está completa",
				Details: verr.Reasons,
			})
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad requerida"})
		}
		// Fallo de infraestructura: mensaje genérico, sin detalle interno.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo enviar la ronda, intente de nuevo"})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// captureError mapea errores de la máquina de captura a HTTP: validaciones de
// entrada van con su mensaje (son accionables para el operador); fallos del
// store de sesiones responden 503 sin detalle.
func captureError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "identidad requerida"})
	case errors.Is(err, appcapture.ErrSessionStore):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "SESSION_UNAVAILABLE", Message: "no se pudo acceder a la sesión de captura, intente más tarde"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
}
