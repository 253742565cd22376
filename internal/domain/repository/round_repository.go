package repository

import (
	"time"

	"github.com/jhoicas/Rondas-api/internal/domain/entity"
)

// RoundRepository define el puerto de persistencia para Round (DIP).
// Los listados y GetByID NO cargan los bytes de la foto (pueden pesar 10MB);
// para eso está GetPhoto.
type RoundRepository interface {
	Create(round *entity.Round) error
	GetByID(id string) (*entity.Round, error)
	GetPhoto(id string) (data []byte, name string, err error)
	Update(round *entity.Round) error
	Delete(id string) error

	// Listados según la política de lectura (ver authz.CanReadRound).
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Round, error)
	ListAll(limit, offset int) ([]*entity.Round, error)
	ListByOwnerOrLocations(ownerID string, locations []string, limit, offset int) ([]*entity.Round, error)

	// DeleteOlderThan elimina rondas con timestamp anterior al corte y devuelve
	// cuántas filas se eliminaron (barrido de retención).
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
