package authz

import (
	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/entity"
)

// Actor identidad autenticada evaluando una operación. LocationAccess nil
// significa sin restricción de ubicaciones (solo aplica a manager/admin).
type Actor struct {
	ID             string
	Role           Role
	LocationAccess []string
}

// coversLocation verifica la restricción de ubicaciones del actor.
// nil = sin restricción; con lista, la ubicación debe estar en ella.
func (a Actor) coversLocation(location string) bool {
	if a.LocationAccess == nil {
		return true
	}
	for _, l := range a.LocationAccess {
		if l == location {
			return true
		}
	}
	return false
}

// CanReadRound política de lectura: el dueño siempre ve su fila; manager y
// admin ven filas cuya ubicación cubra su LocationAccess.
func CanReadRound(a Actor, r *entity.Round) bool {
	if r == nil || a.ID == "" {
		return false
	}
	if r.OwnerID == a.ID {
		return true
	}
	switch a.Role {
	case RoleManager, RoleAdmin:
		return a.coversLocation(r.Location)
	case RoleSecurityGuard:
		return false
	default:
		return false
	}
}

// CanInsertRound política de escritura: solo se inserta con owner == actor,
// verificado al escribir y no por convención del cliente.
func CanInsertRound(a Actor, r *entity.Round) bool {
	return r != nil && a.ID != "" && r.OwnerID == a.ID
}

// CanUpdateRound el dueño puede actualizar su propia fila; nadie más.
func CanUpdateRound(a Actor, r *entity.Round) bool {
	return r != nil && a.ID != "" && r.OwnerID == a.ID
}

// CanDeleteRound el dueño puede borrar su propia fila; nadie más.
func CanDeleteRound(a Actor, r *entity.Round) bool {
	return r != nil && a.ID != "" && r.OwnerID == a.ID
}

// CanReadAudit la bitácora de roles solo la leen admins.
func CanReadAudit(a Actor) bool {
	return a.Role == RoleAdmin
}

// CanChangeRole guard del camino privilegiado de mutación de roles:
//  1. solo un admin puede mutar roles ajenos;
//  2. NADIE muta su propio rol, ni siquiera un admin con permisos válidos.
//
// La regla 2 es un invariante duro del modelo, no una advertencia: se aplica
// aquí, en la capa de autorización, independiente de cualquier gating de UI.
func CanChangeRole(a Actor, targetID string) error {
	if a.Role != RoleAdmin {
		return domain.ErrForbidden
	}
	if targetID == "" {
		return domain.ErrInvalidInput
	}
	if targetID == a.ID {
		return domain.ErrCannotModifyOwnRole
	}
	return nil
}
