// Package memory implementa el store de sesiones de captura en memoria, para
// development y tests (un solo nodo, sin Redis).
package memory

import (
	"context"
	"sync"
	"time"

	appcapture "github.com/jhoicas/Rondas-api/internal/application/capture"
	domcapture "github.com/jhoicas/Rondas-api/internal/domain/capture"
)

var _ appcapture.SessionStore = (*SessionStore)(nil)

type session struct {
	state     domcapture.State
	expiresAt time.Time
}

// SessionStore mapa protegido con el mismo contrato que el adaptador Redis.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
	ttl      time.Duration
}

// NewSessionStore construye el store con TTL por sesión.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{sessions: make(map[string]session), ttl: ttl}
}

// Load devuelve (nil, nil) si no hay sesión o ya expiró.
func (s *SessionStore) Load(_ context.Context, ownerID string) (*domcapture.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[ownerID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, ownerID)
		return nil, nil
	}
	state := sess.state
	return &state, nil
}

// Save guarda el estado y renueva el TTL.
func (s *SessionStore) Save(_ context.Context, ownerID string, state domcapture.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ownerID] = session{state: state, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Delete descarta la sesión.
func (s *SessionStore) Delete(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ownerID)
	return nil
}
