package repository

import "github.com/jhoicas/Rondas-api/internal/domain/entity"

// AuditRepository puerto de la bitácora de cambios de rol. Append-only:
// deliberadamente no expone Update ni Delete.
type AuditRepository interface {
	Create(entry *entity.AuditEntry) error
	List(limit, offset int) ([]*entity.AuditEntry, error)
}
