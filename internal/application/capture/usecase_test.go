package capture_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcapture "github.com/jhoicas/Rondas-api/internal/application/capture"
	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/authz"
	domcapture "github.com/jhoicas/Rondas-api/internal/domain/capture"
	"github.com/jhoicas/Rondas-api/internal/domain/entity"
	"github.com/jhoicas/Rondas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Rondas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeRoundRepo struct {
	created   []*entity.Round
	createErr error
}

func (f *fakeRoundRepo) Create(r *entity.Round) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *r
	f.created = append(f.created, &cp)
	return nil
}

func (f *fakeRoundRepo) GetByID(string) (*entity.Round, error)   { return nil, nil }
func (f *fakeRoundRepo) GetPhoto(string) ([]byte, string, error) { return nil, "", nil }
func (f *fakeRoundRepo) Update(*entity.Round) error              { return nil }
func (f *fakeRoundRepo) Delete(string) error                     { return nil }
func (f *fakeRoundRepo) ListByOwner(string, int, int) ([]*entity.Round, error) {
	return nil, nil
}
func (f *fakeRoundRepo) ListAll(int, int) ([]*entity.Round, error) { return nil, nil }
func (f *fakeRoundRepo) ListByOwnerOrLocations(string, []string, int, int) ([]*entity.Round, error) {
	return nil, nil
}
func (f *fakeRoundRepo) DeleteOlderThan(time.Time) (int64, error) { return 0, nil }

// brokenStore simula un store de sesiones caído.
type brokenStore struct{ err error }

func (b *brokenStore) Load(context.Context, string) (*domcapture.State, error) {
	return nil, b.err
}
func (b *brokenStore) Save(context.Context, string, domcapture.State) error { return b.err }
func (b *brokenStore) Delete(context.Context, string) error                 { return b.err }

func newCaptureUC(t *testing.T) (*appcapture.UseCase, *fakeRoundRepo) {
	t.Helper()
	repo := &fakeRoundRepo{}
	store := memory.NewSessionStore(time.Hour)
	return appcapture.NewUseCase(store, repo, logger.Nop()), repo
}

const owner = "guard-1"

var guardActor = authz.Actor{ID: owner, Role: authz.RoleSecurityGuard}

func fillSession(t *testing.T, uc *appcapture.UseCase) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= domcapture.NumCorners; i++ {
		_, err := uc.ScanCorner(ctx, owner, dto.ScanCornerRequest{Corner: i, Payload: "QR"})
		require.NoError(t, err)
	}
	_, err := uc.SetFields(ctx, owner, dto.CaptureFieldsRequest{
		State:        "Cundinamarca",
		SiteCode:     "BOD-01",
		SiteName:     "Bodega Norte",
		GuardName:    "Carlos Pérez",
		EmployeeCode: "EMP-1001",
	})
	require.NoError(t, err)
	_, err = uc.AttachPhoto(ctx, owner, "selfie.jpg", []byte("jpegdata"), "4.6097", "-74.0817")
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo completo de captura
// ──────────────────────────────────────────────────────────────────────────────

func TestCapture_CicloCompletoHastaEnvio(t *testing.T) {
	uc, repo := newCaptureUC(t)
	ctx := context.Background()
	fillSession(t, uc)

	st, err := uc.State(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, st.Missing, "sesión completa: ninguna precondición pendiente")
	require.NotNil(t, st.Coordinates)
	assert.Equal(t, "4.6097", st.Coordinates.Lat)

	out, err := uc.Submit(ctx, guardActor)
	require.NoError(t, err)
	assert.NotEmpty(t, out.RoundID)

	require.Len(t, repo.created, 1, "exactamente un insert por envío")
	r := repo.created[0]
	assert.Equal(t, owner, r.OwnerID)
	assert.Equal(t, "Cundinamarca - Bodega Norte", r.Location)
	assert.Equal(t, []byte("jpegdata"), r.Photo)

	// Tras el envío la sesión vuelve al estado inicial.
	st, err = uc.State(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, st.ActiveCorner)
	assert.NotEmpty(t, st.Missing)
}

// El envío incompleto reporta TODAS las precondiciones pendientes de una vez
// y no toca el store de rondas.
func TestSubmit_IncompletoReportaTodo(t *testing.T) {
	uc, repo := newCaptureUC(t)

	_, err := uc.Submit(context.Background(), guardActor)
	var verr *appcapture.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Reasons, 10, "4 esquinas + foto + 5 campos")
	assert.Empty(t, repo.created)
}

func TestSubmit_SinIdentidadFallaCerrado(t *testing.T) {
	uc, repo := newCaptureUC(t)
	_, err := uc.Submit(context.Background(), authz.Actor{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, repo.created)
}

// Si el insert falla, la sesión se conserva completa: el operador reintenta el
// mismo envío sin recapturar nada.
func TestSubmit_FalloDelStorePreservaSesion(t *testing.T) {
	uc, repo := newCaptureUC(t)
	ctx := context.Background()
	fillSession(t, uc)
	repo.createErr = errors.New("connection refused")

	_, err := uc.Submit(ctx, guardActor)
	require.Error(t, err)

	st, err := uc.State(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, st.Missing, "la sesión sigue completa tras el fallo")

	// Reintento con el store recuperado.
	repo.createErr = nil
	out, err := uc.Submit(ctx, guardActor)
	require.NoError(t, err)
	assert.NotEmpty(t, out.RoundID)
	assert.Len(t, repo.created, 1)
}

func TestCancel_DescartaSesion(t *testing.T) {
	uc, _ := newCaptureUC(t)
	ctx := context.Background()
	fillSession(t, uc)

	require.NoError(t, uc.Cancel(ctx, owner))

	st, err := uc.State(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, [domcapture.NumCorners]string{}, st.Corners)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones por sesión
// ──────────────────────────────────────────────────────────────────────────────

// Cada identidad tiene su propia sesión: lo que escanea un guardia no aparece
// en la sesión de otro.
func TestSesiones_AisladasPorIdentidad(t *testing.T) {
	uc, _ := newCaptureUC(t)
	ctx := context.Background()

	_, err := uc.ScanCorner(ctx, "guard-a", dto.ScanCornerRequest{Corner: 1, Payload: "QR-A"})
	require.NoError(t, err)

	st, err := uc.State(ctx, "guard-b")
	require.NoError(t, err)
	assert.Empty(t, st.Corners[0])
}

func TestScanCorner_PayloadPeligrosoNoMutaSesion(t *testing.T) {
	uc, _ := newCaptureUC(t)
	ctx := context.Background()
	_, err := uc.ScanCorner(ctx, owner, dto.ScanCornerRequest{Corner: 1, Payload: "QR-OK"})
	require.NoError(t, err)

	_, err = uc.ScanCorner(ctx, owner, dto.ScanCornerRequest{Corner: 2, Payload: "<script>x"})
	require.Error(t, err)

	st, err := uc.State(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "QR-OK", st.Corners[0])
	assert.Empty(t, st.Corners[1])
	assert.Equal(t, 2, st.ActiveCorner, "la activa quedó donde el último escaneo válido la dejó")
}

// Coordenadas no parseables se descartan sin rechazar la foto.
func TestAttachPhoto_CoordenadasInvalidasSeDescartan(t *testing.T) {
	uc, _ := newCaptureUC(t)
	ctx := context.Background()

	st, err := uc.AttachPhoto(ctx, owner, "selfie.jpg", []byte("jpegdata"), "no-un-numero", "-74.08")
	require.NoError(t, err)
	assert.NotNil(t, st.Photo)
	assert.Nil(t, st.Coordinates)

	st, err = uc.AttachPhoto(ctx, owner, "selfie.jpg", []byte("jpegdata"), "4.6", "")
	require.NoError(t, err)
	assert.Nil(t, st.Coordinates, "el par se guarda completo o no se guarda")
}

func TestOperaciones_SinIdentidad(t *testing.T) {
	uc, _ := newCaptureUC(t)
	ctx := context.Background()

	_, err := uc.State(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	err = uc.Cancel(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// Con el store caído los errores hacia afuera son el sentinel genérico, nunca
// el detalle de infraestructura.
func TestStoreCaido_ErrorGenerico(t *testing.T) {
	uc := appcapture.NewUseCase(&brokenStore{err: errors.New("i/o timeout")}, &fakeRoundRepo{}, logger.Nop())
	ctx := context.Background()

	_, err := uc.State(ctx, owner)
	assert.ErrorIs(t, err, appcapture.ErrSessionStore)

	_, err = uc.ScanCorner(ctx, owner, dto.ScanCornerRequest{Corner: 1, Payload: "QR"})
	assert.ErrorIs(t, err, appcapture.ErrSessionStore)

	err = uc.Cancel(ctx, owner)
	assert.ErrorIs(t, err, appcapture.ErrSessionStore)
}
