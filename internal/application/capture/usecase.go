package capture

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/authz"
	domcapture "github.com/jhoicas/Rondas-api/internal/domain/capture"
	"github.com/jhoicas/Rondas-api/internal/domain/repository"
	"github.com/jhoicas/Rondas-api/pkg/logger"
)

// ErrSessionStore el store de sesiones no respondió. El detalle queda en los
// logs; hacia afuera el mensaje es genérico.
var ErrSessionStore = errors.New("almacenamiento de sesión no disponible")

// ValidationError agrega TODAS las precondiciones de envío que fallan.
// El handler la convierte en un ErrorResponse con Details por motivo.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "envío rechazado: " + strings.Join(e.Reasons, "; ")
}

// UseCase orquesta la máquina de captura sobre sesiones efímeras: carga el
// estado, aplica una transición pura y guarda el resultado. El único write al
// store de rondas ocurre en Submit, y solo cuando todo valida.
type UseCase struct {
	sessions SessionStore
	rounds   repository.RoundRepository
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de captura.
func NewUseCase(sessions SessionStore, rounds repository.RoundRepository, log *logger.Logger) *UseCase {
	return &UseCase{sessions: sessions, rounds: rounds, log: log}
}

// State devuelve el estado actual de la sesión (inicial si no existe).
func (uc *UseCase) State(ctx context.Context, ownerID string) (*dto.CaptureStateResponse, error) {
	state, err := uc.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return toStateResponse(state), nil
}

// ScanCorner aplica el escaneo de una esquina. En error de validación la
// sesión queda como estaba y el operador puede reintentar.
func (uc *UseCase) ScanCorner(ctx context.Context, ownerID string, in dto.ScanCornerRequest) (*dto.CaptureStateResponse, error) {
	return uc.transition(ctx, ownerID, func(s domcapture.State) (domcapture.State, error) {
		return s.ScanCorner(in.Corner, in.Payload)
	})
}

// SelectCorner cambia la esquina activa manualmente.
func (uc *UseCase) SelectCorner(ctx context.Context, ownerID string, corner int) (*dto.CaptureStateResponse, error) {
	return uc.transition(ctx, ownerID, func(s domcapture.State) (domcapture.State, error) {
		return s.SelectCorner(corner)
	})
}

// SetFields guarda los campos del formulario saneados.
func (uc *UseCase) SetFields(ctx context.Context, ownerID string, in dto.CaptureFieldsRequest) (*dto.CaptureStateResponse, error) {
	return uc.transition(ctx, ownerID, func(s domcapture.State) (domcapture.State, error) {
		return s.SetFields(domcapture.FormFields{
			State:        in.State,
			SiteCode:     in.SiteCode,
			SiteName:     in.SiteName,
			GuardName:    in.GuardName,
			EmployeeCode: in.EmployeeCode,
		})
	})
}

// AttachPhoto adjunta la foto con coordenadas opcionales en texto decimal.
// Coordenadas no parseables o fuera de rango se descartan; la foto queda.
func (uc *UseCase) AttachPhoto(ctx context.Context, ownerID, name string, data []byte, latStr, lngStr string) (*dto.CaptureStateResponse, error) {
	coords := parseCoordinates(latStr, lngStr)
	return uc.transition(ctx, ownerID, func(s domcapture.State) (domcapture.State, error) {
		return s.AttachPhoto(name, data, coords)
	})
}

// Cancel descarta la sesión de captura sin tocar el store de rondas.
func (uc *UseCase) Cancel(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	if err := uc.sessions.Delete(ctx, ownerID); err != nil {
		uc.log.Error().Err(err).Str("owner_id", ownerID).Msg("no se pudo descartar la sesión de captura")
		return ErrSessionStore
	}
	return nil
}

// Submit envío todo-o-nada de la ronda:
//   - falla cerrado sin identidad autenticada;
//   - re-valida TODAS las precondiciones y las reporta completas;
//   - emite exactamente un insert; en fallo del store la sesión se conserva
//     para reintentar y el error hacia afuera es genérico;
//   - en éxito la sesión se elimina (estado vuelve a inicial).
func (uc *UseCase) Submit(ctx context.Context, actor authz.Actor) (*dto.SubmitResponse, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	state, err := uc.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if errs := state.Validate(); len(errs) > 0 {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
		return nil, &ValidationError{Reasons: reasons}
	}
	round, err := state.Assemble(actor.ID, time.Now())
	if err != nil {
		return nil, err
	}
	round.ID = uuid.New().String()

	// La política de escritura se verifica al escribir, no por convención.
	if !authz.CanInsertRound(actor, round) {
		return nil, domain.ErrForbidden
	}
	if err := uc.rounds.Create(round); err != nil {
		// Estado preservado: el operador reintenta el mismo envío.
		uc.log.Error().Err(err).Str("owner_id", actor.ID).Msg("insert de ronda falló")
		return nil, err
	}
	if err := uc.sessions.Delete(ctx, actor.ID); err != nil {
		// La ronda ya quedó persistida; una sesión colgada solo expira por TTL.
		uc.log.Warn().Err(err).Str("owner_id", actor.ID).Msg("no se pudo limpiar sesión tras envío")
	}
	return &dto.SubmitResponse{RoundID: round.ID}, nil
}

func (uc *UseCase) load(ctx context.Context, ownerID string) (domcapture.State, error) {
	if ownerID == "" {
		return domcapture.State{}, domain.ErrUnauthorized
	}
	state, err := uc.sessions.Load(ctx, ownerID)
	if err != nil {
		uc.log.Error().Err(err).Str("owner_id", ownerID).Msg("no se pudo cargar la sesión de captura")
		return domcapture.State{}, ErrSessionStore
	}
	if state == nil {
		return domcapture.NewState(), nil
	}
	return *state, nil
}

func (uc *UseCase) transition(ctx context.Context, ownerID string, fn func(domcapture.State) (domcapture.State, error)) (*dto.CaptureStateResponse, error) {
	state, err := uc.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	next, err := fn(state)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Save(ctx, ownerID, next); err != nil {
		uc.log.Error().Err(err).Str("owner_id", ownerID).Msg("no se pudo guardar la sesión de captura")
		return nil, ErrSessionStore
	}
	return toStateResponse(next), nil
}

// parseCoordinates convierte lat/lng en texto a Coordinates. Cualquier valor
// ausente o no parseable produce nil: el par se guarda completo o no se guarda.
func parseCoordinates(latStr, lngStr string) *domcapture.Coordinates {
	if latStr == "" || lngStr == "" {
		return nil
	}
	lat, err := decimal.NewFromString(latStr)
	if err != nil {
		return nil
	}
	lng, err := decimal.NewFromString(lngStr)
	if err != nil {
		return nil
	}
	return &domcapture.Coordinates{Lat: lat, Lng: lng}
}

func toStateResponse(s domcapture.State) *dto.CaptureStateResponse {
	resp := &dto.CaptureStateResponse{
		Corners:      s.Corners,
		ActiveCorner: s.ActiveCorner,
		Fields: dto.CaptureFieldsRequest{
			State:        s.Fields.State,
			SiteCode:     s.Fields.SiteCode,
			SiteName:     s.Fields.SiteName,
			GuardName:    s.Fields.GuardName,
			EmployeeCode: s.Fields.EmployeeCode,
		},
	}
	if s.Photo != nil {
		resp.Photo = &dto.PhotoMetaResponse{Name: s.Photo.Name, Size: s.Photo.Size}
	}
	if s.Coordinates != nil {
		resp.Coordinates = &dto.CoordinatesResponse{
			Lat: s.Coordinates.Lat.String(),
			Lng: s.Coordinates.Lng.String(),
		}
	}
	for _, e := range s.Validate() {
		resp.Missing = append(resp.Missing, e.Error())
	}
	return resp
}
