// Package capture implementa la máquina de estados de captura de rondas:
// escaneo de las cuatro esquinas QR, foto geoetiquetada, datos del guardia y
// envío todo-o-nada. Las transiciones son funciones puras sobre State, sin
// singletons mutables, para poder probarlas sin harness de UI ni de HTTP.
package capture

import (
	"errors"
	"fmt"
	"strings"
)

// Límites de entrada. Un payload QR de más de 500 caracteres o una foto de
// más de 10MB se rechazan de plano.
const (
	MaxQRPayloadLen = 500
	MaxPhotoBytes   = 10 << 20 // 10MB

	MaxStateLen        = 50
	MaxSiteCodeLen     = 20
	MaxSiteNameLen     = 100
	MaxGuardNameLen    = 100
	MaxEmployeeCodeLen = 50
)

// Errores de validación de entrada.
var (
	ErrEmptyPayload     = errors.New("el código QR está vacío")
	ErrPayloadTooLong   = errors.New("el código QR excede la longitud máxima")
	ErrDangerousPayload = errors.New("el código QR contiene contenido no permitido")
	ErrPhotoTooLarge    = errors.New("la foto excede el tamaño máximo de 10MB")
	ErrInvalidCorner    = errors.New("número de esquina inválido")
)

// Denylist de patrones peligrosos en payloads QR (comparación case-insensitive).
var dangerousPatterns = []string{
	"<script",
	"javascript:",
	"data:",
	"vbscript:",
}

// ValidateQRPayload rechaza payloads vacíos, demasiado largos o con patrones
// de inyección. Se evalúa sobre el texto crudo, antes de sanitizar.
func ValidateQRPayload(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrEmptyPayload
	}
	if len(raw) > MaxQRPayloadLen {
		return fmt.Errorf("%w (%d > %d)", ErrPayloadTooLong, len(raw), MaxQRPayloadLen)
	}
	lower := strings.ToLower(raw)
	for _, p := range dangerousPatterns {
		if strings.Contains(lower, p) {
			return ErrDangerousPayload
		}
	}
	return nil
}

// Sanitize elimina los caracteres < > " ' & y recorta espacios en los extremos.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '<', '>', '"', '\'', '&':
			// descartado
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// sanitizeBounded sanea un campo de texto y verifica no-vacío y longitud máxima.
// El nombre del campo va en el error para poder agregarlos en el submit.
func sanitizeBounded(field, raw string, max int) (string, error) {
	clean := Sanitize(raw)
	if clean == "" {
		return "", fmt.Errorf("%s: requerido", field)
	}
	if len(clean) > max {
		return "", fmt.Errorf("%s: excede %d caracteres", field, max)
	}
	return clean, nil
}
