package entity

import "time"

// RoleAssignment asigna exactamente un rol a una identidad.
// LocationAccess restringe el alcance de lectura de un manager: nil = sin
// restricción; lista vacía o con valores = solo esas ubicaciones.
type RoleAssignment struct {
	UserID         string
	Role           string // security_guard, manager, admin (ver authz.Role)
	LocationAccess []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
