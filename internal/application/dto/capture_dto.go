package dto

// ScanCornerRequest payload QR de una esquina. Corner 0 = esquina activa.
type ScanCornerRequest struct {
	Corner  int    `json:"corner"`
	Payload string `json:"payload"`
}

// SelectCornerRequest selección manual de esquina activa.
type SelectCornerRequest struct {
	Corner int `json:"corner"`
}

// CaptureFieldsRequest campos del formulario de la ronda.
type CaptureFieldsRequest struct {
	State        string `json:"state"`
	SiteCode     string `json:"site_code"`
	SiteName     string `json:"site_name"`
	GuardName    string `json:"guard_name"`
	EmployeeCode string `json:"employee_code"`
}

// CaptureStateResponse foto del estado de la sesión de captura. Los payloads
// de esquina se devuelven ya saneados; la foto solo como metadatos.
type CaptureStateResponse struct {
	Corners      [4]string             `json:"corners"`
	ActiveCorner int                   `json:"active_corner"`
	Photo        *PhotoMetaResponse    `json:"photo,omitempty"`
	Coordinates  *CoordinatesResponse  `json:"coordinates,omitempty"`
	Fields       CaptureFieldsRequest  `json:"fields"`
	Missing      []string              `json:"missing,omitempty"` // precondiciones de envío que aún fallan
}

// PhotoMetaResponse metadatos de la foto adjunta.
type PhotoMetaResponse struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// CoordinatesResponse par lat/lng como strings decimales exactos.
type CoordinatesResponse struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// CaptureLimitsResponse límites que el cliente debe respetar (espera de GPS,
// tamaño de foto, longitud de payload QR).
type CaptureLimitsResponse struct {
	MaxPhotoBytes   int64 `json:"max_photo_bytes"`
	MaxQRPayloadLen int   `json:"max_qr_payload_len"`
	GPSWaitSeconds  int   `json:"gps_wait_seconds"`
}

// SubmitResponse resultado de un envío aceptado.
type SubmitResponse struct {
	RoundID string `json:"round_id"`
}
