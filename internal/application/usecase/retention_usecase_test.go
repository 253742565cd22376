package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Rondas-api/internal/domain/entity"
	"github.com/jhoicas/Rondas-api/pkg/logger"
)

// sweepRepo registra el corte recibido; el resto del puerto no participa en el
// barrido.
type sweepRepo struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (s *sweepRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, s.err
}

func (s *sweepRepo) Create(*entity.Round) error                { return nil }
func (s *sweepRepo) GetByID(string) (*entity.Round, error)     { return nil, nil }
func (s *sweepRepo) GetPhoto(string) ([]byte, string, error)   { return nil, "", nil }
func (s *sweepRepo) Update(*entity.Round) error                { return nil }
func (s *sweepRepo) Delete(string) error                       { return nil }
func (s *sweepRepo) ListByOwner(string, int, int) ([]*entity.Round, error) {
	return nil, nil
}
func (s *sweepRepo) ListAll(int, int) ([]*entity.Round, error) { return nil, nil }
func (s *sweepRepo) ListByOwnerOrLocations(string, []string, int, int) ([]*entity.Round, error) {
	return nil, nil
}

// El corte del barrido es exactamente hoy menos la ventana de retención.
func TestSweep_CorteEsVentanaDeRetencion(t *testing.T) {
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	repo := &sweepRepo{deleted: 3}
	uc := NewRetentionUseCase(repo, logger.Nop(), 7, 60)

	n := uc.Sweep()

	assert.Equal(t, int64(3), n)
	assert.Equal(t, fixed.AddDate(0, 0, -7), repo.cutoff)
}

// Un barrido fallido devuelve 0 y no interrumpe nada: el siguiente tick vuelve
// a intentar.
func TestSweep_ErrorDevuelveCero(t *testing.T) {
	repo := &sweepRepo{err: errors.New("connection refused")}
	uc := NewRetentionUseCase(repo, logger.Nop(), 7, 60)
	assert.Zero(t, uc.Sweep())
}

// Configuración inválida degrada a los defaults (7 días, 60 minutos).
func TestRetention_DefaultsAnteConfigInvalida(t *testing.T) {
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = time.Now }()

	repo := &sweepRepo{}
	uc := NewRetentionUseCase(repo, logger.Nop(), 0, -5)
	uc.Sweep()

	assert.Equal(t, fixed.AddDate(0, 0, -7), repo.cutoff)
	assert.Equal(t, 60*time.Minute, uc.interval)
}
