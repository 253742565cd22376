// Package authz concentra el modelo de autorización: el enum cerrado de roles
// y los predicados de visibilidad/escritura fila a fila. Los predicados son
// puros y se prueban sin persistencia; los repositorios solo reflejan en SQL
// lo que aquí se decide.
package authz

import "fmt"

// Role enum cerrado de roles del sistema. Todo punto de decisión hace switch
// exhaustivo sobre estos tres valores; un rol desconocido nunca otorga acceso.
type Role string

const (
	RoleSecurityGuard Role = "security_guard" // rol por defecto al crear una identidad
	RoleManager       Role = "manager"
	RoleAdmin         Role = "admin"
)

// ParseRole convierte el valor persistido a Role. Rechaza cualquier string
// fuera del enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSecurityGuard, RoleManager, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("rol desconocido: %q", s)
	}
}

// Valid indica si el rol pertenece al enum.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String implementa fmt.Stringer.
func (r Role) String() string { return string(r) }
