package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/entity"
	"github.com/jhoicas/Rondas-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación del puerto RoleRepository sobre PostgreSQL.
// Get es una lectura plana: la evaluación de políticas ocurre en authz, nunca
// aquí, así el check de escritura no consulta recursivamente lo que protege.
type RoleRepo struct {
	q querier
}

// NewRoleRepository construye el adaptador de persistencia para asignaciones de rol.
func NewRoleRepository(q querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Get devuelve la asignación de una identidad, o (nil, nil) si no tiene.
func (r *RoleRepo) Get(userID string) (*entity.RoleAssignment, error) {
	query := `
		SELECT user_id, role, location_access, created_at, updated_at
		FROM role_assignments WHERE user_id = $1`
	var a entity.RoleAssignment
	err := r.q.QueryRow(context.Background(), query, userID).Scan(
		&a.UserID, &a.Role, &a.LocationAccess, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role assignment: %w", err)
	}
	return &a, nil
}

// Create inserta la asignación de rol de una identidad.
func (r *RoleRepo) Create(a *entity.RoleAssignment) error {
	query := `
		INSERT INTO role_assignments (user_id, role, location_access, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		a.UserID, a.Role, a.LocationAccess, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert role assignment: %w", err)
	}
	return nil
}

// Update reemplaza rol y restricción de ubicaciones de una identidad.
func (r *RoleRepo) Update(a *entity.RoleAssignment) error {
	query := `
		UPDATE role_assignments SET role = $2, location_access = $3, updated_at = $4
		WHERE user_id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		a.UserID, a.Role, a.LocationAccess, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update role assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// Delete elimina la asignación (la identidad queda sin rol).
func (r *RoleRepo) Delete(userID string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM role_assignments WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete role assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}
