package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/application/usecase"
	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/authz"
	"github.com/jhoicas/Rondas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del repositorio de rondas
// ──────────────────────────────────────────────────────────────────────────────

type fakeRoundRepo struct {
	rounds map[string]*entity.Round
	photos map[string][]byte
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{
		rounds: make(map[string]*entity.Round),
		photos: make(map[string][]byte),
	}
}

func (f *fakeRoundRepo) add(r *entity.Round) {
	cp := *r
	f.rounds[r.ID] = &cp
}

func (f *fakeRoundRepo) Create(r *entity.Round) error {
	f.add(r)
	f.photos[r.ID] = r.Photo
	return nil
}

func (f *fakeRoundRepo) GetByID(id string) (*entity.Round, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoundRepo) GetPhoto(id string) ([]byte, string, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return f.photos[id], r.PhotoName, nil
}

func (f *fakeRoundRepo) Update(r *entity.Round) error {
	f.add(r)
	return nil
}

func (f *fakeRoundRepo) Delete(id string) error {
	delete(f.rounds, id)
	return nil
}

func (f *fakeRoundRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Round, error) {
	var out []*entity.Round
	for _, r := range f.rounds {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRoundRepo) ListAll(limit, offset int) ([]*entity.Round, error) {
	var out []*entity.Round
	for _, r := range f.rounds {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRoundRepo) ListByOwnerOrLocations(ownerID string, locations []string, limit, offset int) ([]*entity.Round, error) {
	var out []*entity.Round
	for _, r := range f.rounds {
		if r.OwnerID == ownerID {
			out = append(out, r)
			continue
		}
		for _, l := range locations {
			if r.Location == l {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRoundRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var n int64
	for id, r := range f.rounds {
		if r.Timestamp.Before(cutoff) {
			delete(f.rounds, id)
			n++
		}
	}
	return n, nil
}

func seedRounds(repo *fakeRoundRepo) {
	repo.add(&entity.Round{ID: "r-1", OwnerID: "g-1", Location: "Bodega Norte", GuardName: "Carlos", PhotoName: "a.jpg"})
	repo.add(&entity.Round{ID: "r-2", OwnerID: "g-2", Location: "Bodega Norte", GuardName: "Ana", PhotoName: "b.jpg"})
	repo.add(&entity.Round{ID: "r-3", OwnerID: "g-2", Location: "Bodega Sur", GuardName: "Ana", PhotoName: "c.jpg"})
}

// ──────────────────────────────────────────────────────────────────────────────
// ListVisible — la visibilidad sigue la política de authz
// ──────────────────────────────────────────────────────────────────────────────

func TestListVisible_GuardiaSoloVeLoSuyo(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)

	out, err := uc.ListVisible(authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}, 20, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "r-1", out.Items[0].ID)
}

func TestListVisible_ManagerSinRestriccionVeTodo(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)

	out, err := uc.ListVisible(authz.Actor{ID: "m-1", Role: authz.RoleManager}, 20, 0)
	require.NoError(t, err)
	assert.Len(t, out.Items, 3)
}

func TestListVisible_ManagerRestringidoVeSuyoMasUbicaciones(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	repo.add(&entity.Round{ID: "r-4", OwnerID: "m-1", Location: "Bodega Este", GuardName: "Mario"})
	uc := usecase.NewRoundUseCase(repo)

	out, err := uc.ListVisible(authz.Actor{
		ID:             "m-1",
		Role:           authz.RoleManager,
		LocationAccess: []string{"Bodega Sur"},
	}, 20, 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(out.Items))
	for _, r := range out.Items {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"r-3", "r-4"}, ids,
		"fila propia fuera de sus ubicaciones + filas ajenas en sus ubicaciones")
}

func TestListVisible_RolDesconocidoListaVacia(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)

	out, err := uc.ListVisible(authz.Actor{ID: "x-1", Role: authz.Role("root")}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID / Photo — sin filtrar existencia
// ──────────────────────────────────────────────────────────────────────────────

// Una fila denegada y una inexistente responden IGUAL: el solicitante no puede
// distinguir "no existe" de "existe pero no es tuya".
func TestGetByID_DenegadaIndistinguibleDeInexistente(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)
	guardia := authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}

	denegada, err := uc.GetByID(guardia, "r-2")
	require.NoError(t, err)
	inexistente, err2 := uc.GetByID(guardia, "r-999")
	require.NoError(t, err2)

	assert.Nil(t, denegada)
	assert.Equal(t, inexistente, denegada)
}

func TestGetByID_DuenoVeSuFila(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)

	out, err := uc.GetByID(authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}, "r-1")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Carlos", out.GuardName)
}

func TestPhoto_DenegadaRespondeNotFound(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)

	_, _, err := uc.Photo(authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}, "r-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete — solo el dueño
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_DuenoEditaConSanitizacion(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)
	nombre := `Carlos "El Veloz" <Pérez>`

	out, err := uc.Update(authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}, "r-1", dto.UpdateRoundRequest{GuardName: &nombre})
	require.NoError(t, err)
	assert.Equal(t, "Carlos El Veloz Pérez", out.GuardName)
}

func TestUpdate_NoDuenoProhibido(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)
	nombre := "Otro"

	// Ni siquiera un admin con visibilidad total edita filas ajenas.
	_, err := uc.Update(authz.Actor{ID: "a-1", Role: authz.RoleAdmin}, "r-1", dto.UpdateRoundRequest{GuardName: &nombre})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdate_CampoVacioTrasSanitizarRechazado(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)
	vacio := `<>""`

	_, err := uc.Update(authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}, "r-1", dto.UpdateRoundRequest{GuardName: &vacio})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_SoloDueno(t *testing.T) {
	repo := newFakeRoundRepo()
	seedRounds(repo)
	uc := usecase.NewRoundUseCase(repo)

	err := uc.Delete(authz.Actor{ID: "a-1", Role: authz.RoleAdmin}, "r-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = uc.Delete(authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}, "r-1")
	require.NoError(t, err)

	err = uc.Delete(authz.Actor{ID: "g-1", Role: authz.RoleSecurityGuard}, "r-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "segunda eliminación: la fila ya no existe")
}
