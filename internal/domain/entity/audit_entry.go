package entity

import "time"

// Acciones registradas en la bitácora de roles.
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditEntry registro inmutable de una mutación de rol. Solo se inserta y se
// lee (por admins); nunca se actualiza ni se borra por los flujos normales.
type AuditEntry struct {
	ID        string
	ActorID   string // quién ejecutó el cambio
	TargetID  string // identidad afectada
	OldRole   string // vacío cuando la acción es create
	NewRole   string // vacío cuando la acción es delete
	Action    string // create, update, delete
	CreatedAt time.Time
}
