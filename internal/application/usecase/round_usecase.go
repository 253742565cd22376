package usecase

import (
	"time"

	"github.com/jhoicas/Rondas-api/internal/application/dto"
	"github.com/jhoicas/Rondas-api/internal/domain"
	"github.com/jhoicas/Rondas-api/internal/domain/authz"
	domcapture "github.com/jhoicas/Rondas-api/internal/domain/capture"
	"github.com/jhoicas/Rondas-api/internal/domain/entity"
	"github.com/jhoicas/Rondas-api/internal/domain/repository"
)

// RoundUseCase lectura y mantenimiento de rondas persistidas. Toda decisión
// fila a fila pasa por los predicados de authz; el SQL de los listados solo
// refleja esa misma política.
type RoundUseCase struct {
	repo repository.RoundRepository
}

// NewRoundUseCase construye el caso de uso.
func NewRoundUseCase(repo repository.RoundRepository) *RoundUseCase {
	return &RoundUseCase{repo: repo}
}

// ListVisible lista las rondas que el actor puede leer: las propias para un
// guardia; para manager/admin además las de sus ubicaciones (nil = todas).
func (uc *RoundUseCase) ListVisible(actor authz.Actor, limit, offset int) (*dto.RoundListResponse, error) {
	var (
		list []*entity.Round
		err  error
	)
	switch actor.Role {
	case authz.RoleSecurityGuard:
		list, err = uc.repo.ListByOwner(actor.ID, limit, offset)
	case authz.RoleManager, authz.RoleAdmin:
		if actor.LocationAccess == nil {
			list, err = uc.repo.ListAll(limit, offset)
		} else {
			list, err = uc.repo.ListByOwnerOrLocations(actor.ID, actor.LocationAccess, limit, offset)
		}
	default:
		// Rol fuera del enum: no ve nada.
		return &dto.RoundListResponse{Items: []dto.RoundResponse{}, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.RoundResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toRoundResponse(r))
	}
	return &dto.RoundListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetByID obtiene una ronda si el actor puede leerla. Una fila denegada se
// reporta igual que una inexistente para no filtrar su existencia.
func (uc *RoundUseCase) GetByID(actor authz.Actor, id string) (*dto.RoundResponse, error) {
	round, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if round == nil || !authz.CanReadRound(actor, round) {
		return nil, nil
	}
	return toRoundResponse(round), nil
}

// Photo descarga la foto de una ronda, con la misma política de lectura.
func (uc *RoundUseCase) Photo(actor authz.Actor, id string) (data []byte, name string, err error) {
	round, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if round == nil || !authz.CanReadRound(actor, round) {
		return nil, "", domain.ErrNotFound
	}
	return uc.repo.GetPhoto(id)
}

// Update edición de fila propia: solo el dueño, solo campos de texto, y con
// la misma sanitización de la captura.
func (uc *RoundUseCase) Update(actor authz.Actor, id string, in dto.UpdateRoundRequest) (*dto.RoundResponse, error) {
	round, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, nil
	}
	if !authz.CanUpdateRound(actor, round) {
		return nil, domain.ErrForbidden
	}
	if in.GuardName != nil {
		clean := domcapture.Sanitize(*in.GuardName)
		if clean == "" || len(clean) > domcapture.MaxGuardNameLen {
			return nil, domain.ErrInvalidInput
		}
		round.GuardName = clean
	}
	if in.EmployeeID != nil {
		clean := domcapture.Sanitize(*in.EmployeeID)
		if clean == "" || len(clean) > domcapture.MaxEmployeeCodeLen {
			return nil, domain.ErrInvalidInput
		}
		round.EmployeeID = clean
	}
	if err := uc.repo.Update(round); err != nil {
		return nil, err
	}
	return toRoundResponse(round), nil
}

// Delete borrado de fila propia.
func (uc *RoundUseCase) Delete(actor authz.Actor, id string) error {
	round, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if round == nil {
		return domain.ErrNotFound
	}
	if !authz.CanDeleteRound(actor, round) {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(id)
}

func toRoundResponse(r *entity.Round) *dto.RoundResponse {
	if r == nil {
		return nil
	}
	resp := &dto.RoundResponse{
		ID:         r.ID,
		Location:   r.Location,
		GuardName:  r.GuardName,
		EmployeeID: r.EmployeeID,
		Corner1:    r.Corner1,
		Corner2:    r.Corner2,
		Corner3:    r.Corner3,
		Corner4:    r.Corner4,
		PhotoName:  r.PhotoName,
		PhotoSize:  r.PhotoSize,
		Timestamp:  r.Timestamp,
		OwnerID:    r.OwnerID,
		CreatedAt:  r.CreatedAt,
	}
	if r.Latitude != nil && r.Longitude != nil {
		lat := r.Latitude.String()
		lng := r.Longitude.String()
		resp.Latitude, resp.Longitude = &lat, &lng
	}
	return resp
}

// nowFunc indirección para tests de retención.
var nowFunc = time.Now
