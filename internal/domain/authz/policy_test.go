package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/authz"
	"github.com/jhoicas/Rondas-api/internal/domain/entity"
)

func round(owner, location string) *entity.Round {
	return &entity.Round{ID: "r-1", OwnerID: owner, Location: location}
}

// ──────────────────────────────────────────────────────────────────────────────
// ParseRole — enum cerrado
// ──────────────────────────────────────────────────────────────────────────────

func TestParseRole_EnumCerrado(t *testing.T) {
	for _, s := range []string{"security_guard", "manager", "admin"} {
		r, err := authz.ParseRole(s)
		require.NoError(t, err)
		assert.True(t, r.Valid())
	}
	for _, s := range []string{"", "superadmin", "Admin", "guard", "security guard"} {
		_, err := authz.ParseRole(s)
		assert.Error(t, err, "%q no pertenece al enum", s)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CanReadRound — visibilidad fila a fila
// ──────────────────────────────────────────────────────────────────────────────

// Un guardia solo ve sus propias filas, nunca las de otro guardia.
func TestCanReadRound_GuardiaSoloVeLoSuyo(t *testing.T) {
	guardia := authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}

	assert.True(t, authz.CanReadRound(guardia, round("g-1", "Bodega Norte")))
	assert.False(t, authz.CanReadRound(guardia, round("g-2", "Bodega Norte")))
}

func TestCanReadRound_ManagerSinRestriccionVeTodo(t *testing.T) {
	manager := authz.Actor{ID: "m-1", Role: authz.RoleManager} // LocationAccess nil
	assert.True(t, authz.CanReadRound(manager, round("g-1", "Bodega Norte")))
}

func TestCanReadRound_ManagerRestringidoPorUbicacion(t *testing.T) {
	manager := authz.Actor{
		ID:             "m-1",
		Role:           authz.RoleManager,
		LocationAccess: []string{"Bodega Norte"},
	}
	assert.True(t, authz.CanReadRound(manager, round("g-1", "Bodega Norte")))
	assert.False(t, authz.CanReadRound(manager, round("g-1", "Bodega Sur")))
}

// Una lista vacía (no nil) no cubre ninguna ubicación; el manager aún ve sus
// propias filas como dueño.
func TestCanReadRound_ListaVaciaNoEsNil(t *testing.T) {
	manager := authz.Actor{
		ID:             "m-1",
		Role:           authz.RoleManager,
		LocationAccess: []string{},
	}
	assert.False(t, authz.CanReadRound(manager, round("g-1", "Bodega Norte")))
	assert.True(t, authz.CanReadRound(manager, round("m-1", "Bodega Norte")))
}

func TestCanReadRound_AdminRestringidoTambien(t *testing.T) {
	admin := authz.Actor{
		ID:             "a-1",
		Role:           authz.RoleAdmin,
		LocationAccess: []string{"Bodega Sur"},
	}
	assert.False(t, authz.CanReadRound(admin, round("g-1", "Bodega Norte")))
	assert.True(t, authz.CanReadRound(admin, round("g-1", "Bodega Sur")))
}

// Rol fuera del enum: nunca otorga acceso, ni siquiera a filas ajenas con
// ubicación cubierta.
func TestCanReadRound_RolDesconocidoNiega(t *testing.T) {
	raro := authz.Actor{ID: "x-1", Role: authz.Role("superuser")}
	assert.False(t, authz.CanReadRound(raro, round("g-1", "Bodega Norte")))
	assert.True(t, authz.CanReadRound(raro, round("x-1", "Bodega Norte")),
		"el dueño ve su fila aunque su rol persistido esté corrupto")
}

func TestCanReadRound_SinIdentidadNiega(t *testing.T) {
	assert.False(t, authz.CanReadRound(authz.Actor{}, round("g-1", "Bodega Norte")))
	assert.False(t, authz.CanReadRound(authz.Actor{ID: "g-1"}, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras — solo el dueño
// ──────────────────────────────────────────────────────────────────────────────

func TestEscrituras_SoloDueno(t *testing.T) {
	admin := authz.Actor{ID: "a-1", Role: authz.RoleAdmin}
	dueno := authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}
	ajena := round("g-1", "Bodega Norte")

	assert.True(t, authz.CanInsertRound(dueno, ajena))
	assert.True(t, authz.CanUpdateRound(dueno, ajena))
	assert.True(t, authz.CanDeleteRound(dueno, ajena))

	// Ni el admin escribe filas ajenas: la visibilidad ampliada es solo lectura.
	assert.False(t, authz.CanInsertRound(admin, ajena))
	assert.False(t, authz.CanUpdateRound(admin, ajena))
	assert.False(t, authz.CanDeleteRound(admin, ajena))
}

// ──────────────────────────────────────────────────────────────────────────────
// CanChangeRole — camino privilegiado y anti auto-escalamiento
// ──────────────────────────────────────────────────────────────────────────────

func TestCanChangeRole_SoloAdmin(t *testing.T) {
	for _, rol := range []authz.Role{authz.RoleSecurityGuard, authz.RoleManager, authz.Role("superuser")} {
		actor := authz.Actor{ID: "u-1", Role: rol}
		assert.ErrorIs(t, authz.CanChangeRole(actor, "u-2"), domain.ErrForbidden,
			"rol %s no debe poder mutar roles", rol)
	}
	admin := authz.Actor{ID: "a-1", Role: authz.RoleAdmin}
	assert.NoError(t, authz.CanChangeRole(admin, "u-2"))
}

// Invariante duro: un admin con permisos perfectamente válidos NO puede mutar
// su propio rol. El rechazo es por identidad, no por falta de permisos.
func TestCanChangeRole_AdminNoMutaSuPropioRol(t *testing.T) {
	admin := authz.Actor{ID: "a-1", Role: authz.RoleAdmin}
	err := authz.CanChangeRole(admin, "a-1")
	require.ErrorIs(t, err, domain.ErrCannotModifyOwnRole)
	assert.Equal(t, "cannot modify own role", domain.ErrCannotModifyOwnRole.Error())
}

func TestCanChangeRole_TargetVacio(t *testing.T) {
	admin := authz.Actor{ID: "a-1", Role: authz.RoleAdmin}
	assert.ErrorIs(t, authz.CanChangeRole(admin, ""), domain.ErrInvalidInput)
}

func TestCanReadAudit_SoloAdmin(t *testing.T) {
	assert.True(t, authz.CanReadAudit(authz.Actor{ID: "a-1", Role: authz.RoleAdmin}))
	assert.False(t, authz.CanReadAudit(authz.Actor{ID: "m-1", Role: authz.RoleManager}))
	assert.False(t, authz.CanReadAudit(authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}))
}
