package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Rondas-api/internal/application/usecase"
	"github.com/jhoicas/Rondas-api/internal/domain/repository"
)

var _ usecase.RoleTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunRoleChange inicia una transacción con los repos de rol y bitácora atados
// a ella: la mutación de rol y su entrada de auditoría se confirman juntas o
// no se confirma ninguna.
func (r *TxRunner) RunRoleChange(ctx context.Context, fn func(
	roles repository.RoleRepository,
	audits repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	roleRepo := NewRoleRepository(tx)
	auditRepo := NewAuditRepository(tx)

	if err := fn(roleRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
