package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Rondas-api/internal/domain/repository"
	"github.com/jhoicas/Rondas-api/pkg/logger"
)

// RetentionUseCase barrido programado que elimina rondas con más edad que la
// ventana de retención. Un barrido fallido se registra y el ciclo continúa.
type RetentionUseCase struct {
	rounds   repository.RoundRepository
	log      *logger.Logger
	days     int
	interval time.Duration
}

// NewRetentionUseCase construye el barrido con la política configurada.
func NewRetentionUseCase(rounds repository.RoundRepository, log *logger.Logger, days, intervalMinutes int) *RetentionUseCase {
	if days <= 0 {
		days = 7
	}
	if intervalMinutes <= 0 {
		intervalMinutes = 60
	}
	return &RetentionUseCase{
		rounds:   rounds,
		log:      log,
		days:     days,
		interval: time.Duration(intervalMinutes) * time.Minute,
	}
}

// Run ejecuta un barrido inmediato y luego uno por intervalo, hasta que el
// contexto se cancele. Pensado para correr como goroutine desde cmd/api.
func (uc *RetentionUseCase) Run(ctx context.Context) {
	uc.Sweep()
	ticker := time.NewTicker(uc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			uc.log.Info().Msg("barrido de retención detenido")
			return
		case <-ticker.C:
			uc.Sweep()
		}
	}
}

// Sweep elimina las rondas más viejas que la ventana. Devuelve cuántas filas
// se eliminaron; en error devuelve 0 y deja registro.
func (uc *RetentionUseCase) Sweep() int64 {
	cutoff := nowFunc().AddDate(0, 0, -uc.days)
	n, err := uc.rounds.DeleteOlderThan(cutoff)
	if err != nil {
		uc.log.Error().Err(err).Time("cutoff", cutoff).Msg("barrido de retención falló")
		return 0
	}
	if n > 0 {
		uc.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("rondas expiradas eliminadas")
	}
	return n
}
