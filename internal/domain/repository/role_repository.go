package repository

import "github.com/jhoicas/Rondas-api/internal/domain/entity"

// RoleRepository define el puerto de persistencia para RoleAssignment.
// Get es la función de derivación de rol: lectura plana, sin re-evaluar
// políticas, para que el evaluador de escritura no se consulte a sí mismo.
type RoleRepository interface {
	// Get devuelve (nil, nil) si la identidad no tiene rol asignado.
	Get(userID string) (*entity.RoleAssignment, error)
	Create(assignment *entity.RoleAssignment) error
	Update(assignment *entity.RoleAssignment) error
	Delete(userID string) error
}
