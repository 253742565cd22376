package dto

import "time"

// RoundResponse una ronda persistida, sin los bytes de la foto (se descargan
// por separado en /api/rounds/:id/photo).
type RoundResponse struct {
	ID         string    `json:"id"`
	Location   string    `json:"location"`
	GuardName  string    `json:"guard_name"`
	EmployeeID string    `json:"employee_id"`
	Corner1    string    `json:"corner_1"`
	Corner2    string    `json:"corner_2"`
	Corner3    string    `json:"corner_3"`
	Corner4    string    `json:"corner_4"`
	Latitude   *string   `json:"latitude,omitempty"`
	Longitude  *string   `json:"longitude,omitempty"`
	PhotoName  string    `json:"photo_name"`
	PhotoSize  int64     `json:"photo_size"`
	Timestamp  time.Time `json:"timestamp"`
	OwnerID    string    `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoundListResponse listado paginado de rondas visibles para el solicitante.
type RoundListResponse struct {
	Items []RoundResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// UpdateRoundRequest campos editables por el dueño de la ronda.
type UpdateRoundRequest struct {
	GuardName  *string `json:"guard_name"`
	EmployeeID *string `json:"employee_id"`
}
