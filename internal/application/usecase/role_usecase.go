package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/authz"
	"github.com/jhoicas/Rondas-api/internal/domain/entity"
	"github.com/jhoicas/Rondas-api/internal/domain/repository"
	"github.com/jhoicas/Rondas-api/pkg/logger"
)

// RoleTxRunner ejecuta la mutación de rol y su entrada de bitácora dentro de
// una misma transacción; lo implementa postgres.TxRunner.
type RoleTxRunner interface {
	RunRoleChange(ctx context.Context, fn func(
		roles repository.RoleRepository,
		audits repository.AuditRepository,
	) error) error
}

// RoleUseCase camino privilegiado de mutación de roles + lecturas de rol y
// bitácora. Las mutaciones responden booleano: los motivos de fallo quedan en
// el log interno, nunca en la respuesta.
type RoleUseCase struct {
	roles  repository.RoleRepository
	audits repository.AuditRepository
	tx     RoleTxRunner
	log    *logger.Logger
}

// NewRoleUseCase construye el caso de uso de roles.
func NewRoleUseCase(roles repository.RoleRepository, audits repository.AuditRepository, tx RoleTxRunner, log *logger.Logger) *RoleUseCase {
	return &RoleUseCase{roles: roles, audits: audits, tx: tx, log: log}
}

// ActorFrom arma el Actor para decisiones fila a fila leyendo el rol y la
// restricción de ubicaciones persistidos (el claim del JWT solo sirve para el
// gating grueso del middleware). Sin fila de rol, el actor es security_guard.
func (uc *RoleUseCase) ActorFrom(userID string) (authz.Actor, error) {
	actor := authz.Actor{ID: userID, Role: authz.RoleSecurityGuard}
	if userID == "" {
		return actor, domain.ErrUnauthorized
	}
	assignment, err := uc.roles.Get(userID)
	if err != nil {
		return actor, err
	}
	if assignment == nil {
		return actor, nil
	}
	role, err := authz.ParseRole(assignment.Role)
	if err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("rol persistido fuera del enum")
		return actor, nil
	}
	actor.Role = role
	actor.LocationAccess = assignment.LocationAccess
	return actor, nil
}

// OwnRole una identidad siempre puede leer su propia asignación.
func (uc *RoleUseCase) OwnRole(userID string) (*dto.RoleResponse, error) {
	assignment, err := uc.roles.Get(userID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, domain.ErrRoleNotFound
	}
	return &dto.RoleResponse{
		UserID:         assignment.UserID,
		Role:           assignment.Role,
		LocationAccess: assignment.LocationAccess,
	}, nil
}

// ChangeRole muta el rol de OTRA identidad:
//  1. el actor debe ser admin;
//  2. target != actor — el auto-escalamiento se rechaza siempre, aunque el
//     actor tenga permisos de admin válidos;
//  3. mutación + entrada de bitácora en una sola transacción;
//  4. devuelve éxito/fallo; el detalle va al log, no al caller.
func (uc *RoleUseCase) ChangeRole(ctx context.Context, actor authz.Actor, targetID string, in dto.ChangeRoleRequest) bool {
	newRole, err := authz.ParseRole(in.Role)
	if err != nil {
		uc.log.Warn().Err(err).Str("actor_id", actor.ID).Str("target_id", targetID).Msg("cambio de rol rechazado")
		return false
	}
	if err := authz.CanChangeRole(actor, targetID); err != nil {
		uc.log.Warn().Err(err).Str("actor_id", actor.ID).Str("target_id", targetID).Msg("cambio de rol rechazado")
		return false
	}
	current, err := uc.roles.Get(targetID)
	if err != nil {
		uc.log.Error().Err(err).Str("target_id", targetID).Msg("no se pudo leer rol actual")
		return false
	}

	now := time.Now()
	assignment := &entity.RoleAssignment{
		UserID:         targetID,
		Role:           string(newRole),
		LocationAccess: in.LocationAccess,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	action := entity.AuditActionCreate
	oldRole := ""
	if current != nil {
		assignment.CreatedAt = current.CreatedAt
		action = entity.AuditActionUpdate
		oldRole = current.Role
	}
	entry := &entity.AuditEntry{
		ID:        uuid.New().String(),
		ActorID:   actor.ID,
		TargetID:  targetID,
		OldRole:   oldRole,
		NewRole:   string(newRole),
		Action:    action,
		CreatedAt: now,
	}

	err = uc.tx.RunRoleChange(ctx, func(roles repository.RoleRepository, audits repository.AuditRepository) error {
		if current == nil {
			if err := roles.Create(assignment); err != nil {
				return err
			}
		} else {
			if err := roles.Update(assignment); err != nil {
				return err
			}
		}
		return audits.Create(entry)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("actor_id", actor.ID).Str("target_id", targetID).Msg("cambio de rol falló en el store")
		return false
	}
	uc.log.Info().
		Str("actor_id", actor.ID).
		Str("target_id", targetID).
		Str("old_role", oldRole).
		Str("new_role", string(newRole)).
		Msg("rol mutado")
	return true
}

// RemoveRole elimina la asignación de rol de OTRA identidad (vuelve a la
// ausencia bien definida de rol). Mismo guard y misma bitácora que ChangeRole.
func (uc *RoleUseCase) RemoveRole(ctx context.Context, actor authz.Actor, targetID string) bool {
	if err := authz.CanChangeRole(actor, targetID); err != nil {
		uc.log.Warn().Err(err).Str("actor_id", actor.ID).Str("target_id", targetID).Msg("eliminación de rol rechazada")
		return false
	}
	current, err := uc.roles.Get(targetID)
	if err != nil {
		uc.log.Error().Err(err).Str("target_id", targetID).Msg("no se pudo leer rol actual")
		return false
	}
	if current == nil {
		uc.log.Warn().Str("target_id", targetID).Msg("eliminación de rol sin asignación previa")
		return false
	}
	entry := &entity.AuditEntry{
		ID:        uuid.New().String(),
		ActorID:   actor.ID,
		TargetID:  targetID,
		OldRole:   current.Role,
		Action:    entity.AuditActionDelete,
		CreatedAt: time.Now(),
	}
	err = uc.tx.RunRoleChange(ctx, func(roles repository.RoleRepository, audits repository.AuditRepository) error {
		if err := roles.Delete(targetID); err != nil {
			return err
		}
		return audits.Create(entry)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("actor_id", actor.ID).Str("target_id", targetID).Msg("eliminación de rol falló en el store")
		return false
	}
	return true
}

// ListAudit bitácora de cambios de rol, solo para admins.
func (uc *RoleUseCase) ListAudit(actor authz.Actor, limit, offset int) (*dto.AuditListResponse, error) {
	if !authz.CanReadAudit(actor) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.audits.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AuditEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.AuditEntryResponse{
			ID:        e.ID,
			ActorID:   e.ActorID,
			TargetID:  e.TargetID,
			OldRole:   e.OldRole,
			NewRole:   e.NewRole,
			Action:    e.Action,
			CreatedAt: e.CreatedAt,
		})
	}
	return &dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
