package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrRoleNotFound       = errors.New("rol no asignado")
	ErrSessionNotFound    = errors.New("sesión de captura no encontrada")

	// Mensaje fijo del guard de auto-escalamiento; forma parte del contrato con el front.
	ErrCannotModifyOwnRole = errors.New("cannot modify own role")
)
