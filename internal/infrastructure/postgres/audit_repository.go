package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Rondas-api/internal/domain/entity"
	"github.com/jhoicas/Rondas-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación append-only del puerto AuditRepository.
// No hay UPDATE ni DELETE: la bitácora es inmutable por construcción.
type AuditRepo struct {
	q querier
}

// NewAuditRepository construye el adaptador de persistencia de la bitácora.
func NewAuditRepository(q querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create añade una entrada a la bitácora.
func (r *AuditRepo) Create(e *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, actor_id, target_id, old_role, new_role, action, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		e.ID, e.ActorID, e.TargetID, e.OldRole, e.NewRole, e.Action, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List entradas más recientes primero, con paginación.
func (r *AuditRepo) List(limit, offset int) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, actor_id, target_id, old_role, new_role, action, created_at
		FROM audit_log ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.TargetID, &e.OldRole, &e.NewRole, &e.Action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
