package capture

import (
	"context"

	domcapture "github.com/jhoicas/Rondas-api/internal/domain/capture"
)

// SessionStore puerto del almacenamiento efímero de sesiones de captura.
// Una sesión por identidad autenticada; el TTL lo maneja el adaptador. Las
// sesiones son estado de cliente, jamás tocan la tabla de rondas: una ronda
// a medias no se persiste en el store.
type SessionStore interface {
	// Load devuelve (nil, nil) si no hay sesión para la identidad.
	Load(ctx context.Context, ownerID string) (*domcapture.State, error)
	Save(ctx context.Context, ownerID string, state domcapture.State) error
	Delete(ctx context.Context, ownerID string) error
}
