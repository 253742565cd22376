// Package redis adapta el store de sesiones de captura sobre Redis: una clave
// por identidad con TTL, de modo que una captura abandonada expira sola sin
// dejar rastro en PostgreSQL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	appcapture "github.com/jhoicas/Rondas-api/internal/application/capture"
	domcapture "github.com/jhoicas/Rondas-api/internal/domain/capture"
	"github.com/jhoicas/Rondas-api/pkg/config"
)

var _ appcapture.SessionStore = (*SessionStore)(nil)

const sessionKeyPrefix = "capture:session:"

// NewClient crea y verifica el cliente Redis.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// SessionStore sesiones de captura en Redis (JSON + TTL).
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore construye el store con el TTL de sesión configurado.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// Load devuelve (nil, nil) si la identidad no tiene sesión o ya expiró.
func (s *SessionStore) Load(ctx context.Context, ownerID string) (*domcapture.State, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+ownerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load capture session: %w", err)
	}
	var state domcapture.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode capture session: %w", err)
	}
	return &state, nil
}

// Save serializa el estado y renueva el TTL.
func (s *SessionStore) Save(ctx context.Context, ownerID string, state domcapture.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode capture session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+ownerID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save capture session: %w", err)
	}
	return nil
}

// Delete descarta la sesión (cancelación o envío aceptado).
func (s *SessionStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+ownerID).Err(); err != nil {
		return fmt.Errorf("delete capture session: %w", err)
	}
	return nil
}
