package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rondas-api/internal/domain/entity"
	"github.com/jhoicas/Rondas-api/internal/domain/repository"
)

var _ repository.RoundRepository = (*RoundRepo)(nil)

// Columnas sin los bytes de la foto; los listados nunca arrastran BYTEA de 10MB.
const roundColumns = `
	id, location, guard_name, employee_id,
	corner_1, corner_2, corner_3, corner_4,
	latitude, longitude, photo_name, photo_size,
	submitted_at, owner_id, created_at`

// RoundRepo implementación del puerto RoundRepository sobre PostgreSQL.
type RoundRepo struct {
	q querier
}

// NewRoundRepository construye el adaptador de persistencia para rondas.
func NewRoundRepository(q querier) *RoundRepo {
	return &RoundRepo{q: q}
}

// Create persiste una ronda completa (único write del flujo de envío).
func (r *RoundRepo) Create(round *entity.Round) error {
	query := `
		INSERT INTO rounds (id, location, guard_name, employee_id,
			corner_1, corner_2, corner_3, corner_4,
			latitude, longitude, photo, photo_name, photo_size,
			submitted_at, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		round.ID, round.Location, round.GuardName, round.EmployeeID,
		round.Corner1, round.Corner2, round.Corner3, round.Corner4,
		toNullDecimal(round.Latitude), toNullDecimal(round.Longitude),
		round.Photo, round.PhotoName, round.PhotoSize,
		round.Timestamp, round.OwnerID, round.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert round: id duplicado: %w", err)
		}
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

// GetByID obtiene una ronda por ID, sin los bytes de la foto.
func (r *RoundRepo) GetByID(id string) (*entity.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`
	round, err := scanRound(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get round by id: %w", err)
	}
	return round, nil
}

// GetPhoto carga los bytes de la foto de una ronda.
func (r *RoundRepo) GetPhoto(id string) ([]byte, string, error) {
	var data []byte
	var name string
	err := r.q.QueryRow(context.Background(),
		`SELECT photo, photo_name FROM rounds WHERE id = $1`, id).Scan(&data, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("get round photo: %w", err)
	}
	return data, name, nil
}

// Update actualiza los campos editables de una ronda (owner y evidencia no cambian).
func (r *RoundRepo) Update(round *entity.Round) error {
	query := `UPDATE rounds SET guard_name = $2, employee_id = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, round.ID, round.GuardName, round.EmployeeID)
	if err != nil {
		return fmt.Errorf("update round: %w", err)
	}
	return nil
}

// Delete elimina una ronda por ID.
func (r *RoundRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM rounds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete round: %w", err)
	}
	return nil
}

// ListByOwner rondas de un dueño, más recientes primero.
func (r *RoundRepo) ListByOwner(ownerID string, limit, offset int) ([]*entity.Round, error) {
	query := `SELECT ` + roundColumns + `
		FROM rounds WHERE owner_id = $1
		ORDER BY submitted_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, ownerID, limit, offset)
}

// ListAll todas las rondas (manager/admin sin restricción de ubicaciones).
func (r *RoundRepo) ListAll(limit, offset int) ([]*entity.Round, error) {
	query := `SELECT ` + roundColumns + `
		FROM rounds
		ORDER BY submitted_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByOwnerOrLocations espejo SQL de authz.CanReadRound para un manager
// restringido: filas propias o con ubicación dentro de su lista.
func (r *RoundRepo) ListByOwnerOrLocations(ownerID string, locations []string, limit, offset int) ([]*entity.Round, error) {
	query := `SELECT ` + roundColumns + `
		FROM rounds WHERE owner_id = $1 OR location = ANY($2)
		ORDER BY submitted_at DESC LIMIT $3 OFFSET $4`
	return r.list(query, ownerID, locations, limit, offset)
}

// DeleteOlderThan elimina rondas enviadas antes del corte (barrido de retención).
func (r *RoundRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM rounds WHERE submitted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete rounds older than: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RoundRepo) list(query string, args ...any) ([]*entity.Round, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()
	var list []*entity.Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		list = append(list, round)
	}
	return list, rows.Err()
}

func scanRound(row pgx.Row) (*entity.Round, error) {
	var r entity.Round
	var lat, lng decimal.NullDecimal
	err := row.Scan(
		&r.ID, &r.Location, &r.GuardName, &r.EmployeeID,
		&r.Corner1, &r.Corner2, &r.Corner3, &r.Corner4,
		&lat, &lng, &r.PhotoName, &r.PhotoSize,
		&r.Timestamp, &r.OwnerID, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Latitude = fromNullDecimal(lat)
	r.Longitude = fromNullDecimal(lng)
	return &r, nil
}
