package entity

import "time"

// User representa una identidad del sistema (guardia, supervisor o administrador).
// El rol NO vive aquí: se resuelve contra RoleAssignment para que el guard de
// escalamiento opere siempre sobre el dato persistido y no sobre una copia.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
