package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Rondas-api/internal/domain/entity"
)

// NumCorners esquinas QR requeridas por ronda.
const NumCorners = 4

// Límites geográficos válidos para un fix de GPS.
var (
	latMin = decimal.NewFromInt(-90)
	latMax = decimal.NewFromInt(90)
	lngMin = decimal.NewFromInt(-180)
	lngMax = decimal.NewFromInt(180)
)

// FormFields datos del formulario de la ronda, ya saneados al guardarse en State.
type FormFields struct {
	State        string `json:"state"`
	SiteCode     string `json:"site_code"`
	SiteName     string `json:"site_name"`
	GuardName    string `json:"guard_name"`
	EmployeeCode string `json:"employee_code"`
}

// Photo evidencia fotográfica de la ronda.
type Photo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Data []byte `json:"data"`
}

// Coordinates par lat/lng. Se almacena completo y válido, o no se almacena.
type Coordinates struct {
	Lat decimal.Decimal `json:"lat"`
	Lng decimal.Decimal `json:"lng"`
}

// Valid verifica lat ∈ [-90,90] y lng ∈ [-180,180].
func (c Coordinates) Valid() bool {
	if c.Lat.LessThan(latMin) || c.Lat.GreaterThan(latMax) {
		return false
	}
	if c.Lng.LessThan(lngMin) || c.Lng.GreaterThan(lngMax) {
		return false
	}
	return true
}

// State registro explícito de la máquina de captura. Las transiciones reciben
// un State por valor y devuelven el siguiente; ante error el estado anterior
// queda intacto y el operador puede reintentar.
type State struct {
	Corners      [NumCorners]string `json:"corners"`
	ActiveCorner int                `json:"active_corner"` // 1..4
	Photo        *Photo             `json:"photo,omitempty"`
	Coordinates  *Coordinates       `json:"coordinates,omitempty"`
	Fields       FormFields         `json:"fields"`
}

// NewState estado inicial: sin esquinas, sin foto, esquina activa 1.
func NewState() State {
	return State{ActiveCorner: 1}
}

// ScanCorner valida y sanea un payload QR y lo guarda en la esquina indicada
// (0 = esquina activa). Re-escanear una esquina ya escaneada la sobrescribe.
// En éxito la esquina activa avanza a min(corner+1, 4).
func (s State) ScanCorner(corner int, raw string) (State, error) {
	if corner == 0 {
		corner = s.ActiveCorner
	}
	if corner < 1 || corner > NumCorners {
		return s, ErrInvalidCorner
	}
	if err := ValidateQRPayload(raw); err != nil {
		return s, err
	}
	clean := Sanitize(raw)
	if clean == "" {
		return s, ErrEmptyPayload
	}
	s.Corners[corner-1] = clean
	if corner < NumCorners {
		s.ActiveCorner = corner + 1
	} else {
		s.ActiveCorner = NumCorners
	}
	return s, nil
}

// SelectCorner cambia manualmente la esquina activa (las esquinas pueden
// escanearse en cualquier orden).
func (s State) SelectCorner(corner int) (State, error) {
	if corner < 1 || corner > NumCorners {
		return s, ErrInvalidCorner
	}
	s.ActiveCorner = corner
	return s, nil
}

// SetFields sanea y valida los campos del formulario. Si alguno falla, el
// estado no cambia y el error agrega todos los campos inválidos.
func (s State) SetFields(f FormFields) (State, error) {
	clean, errs := sanitizeFields(f)
	if len(errs) > 0 {
		return s, errors.Join(errs...)
	}
	s.Fields = clean
	return s, nil
}

// AttachPhoto adjunta la foto y, si vienen, las coordenadas. La foto se rechaza
// si supera 10MB o está vacía. Coordenadas fuera de rango se descartan (nil)
// pero la foto se conserva: el GPS es best-effort, la foto no.
func (s State) AttachPhoto(name string, data []byte, coords *Coordinates) (State, error) {
	if len(data) == 0 {
		return s, fmt.Errorf("la foto está vacía")
	}
	if int64(len(data)) > MaxPhotoBytes {
		return s, ErrPhotoTooLarge
	}
	s.Photo = &Photo{Name: Sanitize(name), Size: int64(len(data)), Data: data}
	if coords != nil && coords.Valid() {
		c := *coords
		s.Coordinates = &c
	} else {
		s.Coordinates = nil
	}
	return s, nil
}

// Reset devuelve la máquina al estado inicial (tras un envío aceptado).
func (s State) Reset() State {
	return NewState()
}

// Validate devuelve TODAS las precondiciones de envío que fallan, no solo la
// primera: esquinas faltantes, foto ausente y campos vacíos o fuera de límite.
// Lista vacía = listo para enviar.
func (s State) Validate() []error {
	var errs []error
	for i, c := range s.Corners {
		if c == "" {
			errs = append(errs, fmt.Errorf("esquina %d sin escanear", i+1))
		}
	}
	if s.Photo == nil {
		errs = append(errs, errors.New("foto requerida"))
	}
	_, fieldErrs := sanitizeFields(s.Fields)
	errs = append(errs, fieldErrs...)
	return errs
}

// Assemble construye la ronda final a partir de un estado completo. El ID lo
// asigna el caso de uso; owner y timestamp se fijan aquí y no son editables
// por el operador.
func (s State) Assemble(ownerID string, now time.Time) (*entity.Round, error) {
	if ownerID == "" {
		return nil, errors.New("identidad del remitente requerida")
	}
	if errs := s.Validate(); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	r := &entity.Round{
		Location:   s.Fields.State + " - " + s.Fields.SiteName,
		GuardName:  s.Fields.GuardName,
		EmployeeID: s.Fields.EmployeeCode,
		Corner1:    s.Corners[0],
		Corner2:    s.Corners[1],
		Corner3:    s.Corners[2],
		Corner4:    s.Corners[3],
		Photo:      s.Photo.Data,
		PhotoName:  s.Photo.Name,
		PhotoSize:  s.Photo.Size,
		Timestamp:  now,
		OwnerID:    ownerID,
		CreatedAt:  now,
	}
	if s.Coordinates != nil {
		lat, lng := s.Coordinates.Lat, s.Coordinates.Lng
		r.Latitude, r.Longitude = &lat, &lng
	}
	return r, nil
}

// sanitizeFields sanea cada campo y acumula los errores de todos.
func sanitizeFields(f FormFields) (FormFields, []error) {
	var errs []error
	clean := FormFields{}
	var err error
	if clean.State, err = sanitizeBounded("estado", f.State, MaxStateLen); err != nil {
		errs = append(errs, err)
	}
	if clean.SiteCode, err = sanitizeBounded("código de sitio", f.SiteCode, MaxSiteCodeLen); err != nil {
		errs = append(errs, err)
	}
	if clean.SiteName, err = sanitizeBounded("nombre de sitio", f.SiteName, MaxSiteNameLen); err != nil {
		errs = append(errs, err)
	}
	if clean.GuardName, err = sanitizeBounded("nombre del guardia", f.GuardName, MaxGuardNameLen); err != nil {
		errs = append(errs, err)
	}
	if clean.EmployeeCode, err = sanitizeBounded("código de empleado", f.EmployeeCode, MaxEmployeeCodeLen); err != nil {
		errs = append(errs, err)
	}
	return clean, errs
}
