package dto

import "time"

// RoleResponse asignación de rol de una identidad.
type RoleResponse struct {
	UserID         string   `json:"user_id"`
	Role           string   `json:"role"`
	LocationAccess []string `json:"location_access,omitempty"` // ausente = sin restricción
}

// ChangeRoleRequest mutación privilegiada de rol (solo admin, nunca sobre sí mismo).
type ChangeRoleRequest struct {
	Role           string   `json:"role"`
	LocationAccess []string `json:"location_access"`
}

// ChangeRoleResponse el camino privilegiado responde éxito/fallo sin detalle;
// los motivos quedan en el log interno.
type ChangeRoleResponse struct {
	Success bool `json:"success"`
}

// AuditEntryResponse entrada de la bitácora de roles.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	OldRole   string    `json:"old_role,omitempty"`
	NewRole   string    `json:"new_role,omitempty"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditListResponse listado paginado de bitácora (solo admin).
type AuditListResponse struct {
	Items []AuditEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
