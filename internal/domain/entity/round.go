package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Round es una ronda de vigilancia completa: cuatro esquinas QR escaneadas,
// foto geoetiquetada y datos del guardia, ya saneados por la máquina de captura.
// Una ronda existe completa o no existe: nunca se persisten borradores.
type Round struct {
	ID         string
	Location   string // derivado: "<estado> - <sitio>", nunca vacío
	GuardName  string
	EmployeeID string

	Corner1 string
	Corner2 string
	Corner3 string
	Corner4 string

	// Coordenadas opcionales; o ambas válidas o ambas nil (GPS es best-effort).
	Latitude  *decimal.Decimal
	Longitude *decimal.Decimal

	Photo     []byte
	PhotoName string
	PhotoSize int64

	Timestamp time.Time // instante de envío, lo fija el servidor
	OwnerID   string    // identidad autenticada que envió; inmutable
	CreatedAt time.Time
}

// Corners devuelve las cuatro esquinas en orden.
func (r *Round) Corners() [4]string {
	return [4]string{r.Corner1, r.Corner2, r.Corner3, r.Corner4}
}
