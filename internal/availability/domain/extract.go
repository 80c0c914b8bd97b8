package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
)

// AvailabilityKey es el campo de la imagen que contiene la disponibilidad.
const AvailabilityKey = "availability"

var atfFields = map[string]struct{}{
	"id": {}, "name": {}, "email": {}, "token": {}, AvailabilityKey: {},
}

// availabilityFields solo se usa para validar. Los punteros distinguen
// "ausente/null" de un valor cero.
type availabilityFields struct {
	LastUpdated *string `json:"lastUpdated" validate:"required,iso8601"`
	StartDate   *string `json:"startDate" validate:"required,iso8601"`
	EndDate     *string `json:"endDate" validate:"required,iso8601"`
	IsAvailable *bool   `json:"isAvailable" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseISO8601(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	// uuid_ci acepta UUID canónicos (8-4-4-4-12) en mayúsculas o minúsculas.
	if err := v.RegisterValidation("uuid_ci", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) == 36 && uuid.Validate(s) == nil
	}); err != nil {
		panic(err)
	}
	return v
}

// Extract valida la imagen nueva y construye la clasificación del cambio.
//
// Solo se valida la imagen nueva (identidad y disponibilidad). La disponibilidad
// de la imagen anterior pasa tal cual: el estado previo ya se validó en su
// momento y no debe bloquear eventos posteriores de la misma clave.
func Extract(before, after sharedEvents.RawRecord) (*ChangeClassification, error) {
	if after == nil {
		return nil, fmt.Errorf("%w: missing new image", ErrMalformedRecord)
	}

	atf, err := decodeATF(after)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedRecord, after.JSON(), err)
	}

	newAvailability, err := decodeAvailability(after[AvailabilityKey])
	if err != nil {
		return nil, fmt.Errorf("%w: %q field in %s: %v", ErrMalformedRecord, AvailabilityKey, after.JSON(), err)
	}

	return &ChangeClassification{
		ATF:             *atf,
		OldAvailability: rawAvailability(before),
		NewAvailability: newAvailability,
	}, nil
}

func decodeATF(record sharedEvents.RawRecord) (*ATF, error) {
	var atf ATF
	if err := remarshal(record, &atf, false); err != nil {
		return nil, err
	}
	if err := validate.Struct(&atf); err != nil {
		return nil, err
	}

	for key, value := range record {
		if _, known := atfFields[key]; known {
			continue
		}
		if atf.Extra == nil {
			atf.Extra = make(map[string]any)
		}
		atf.Extra[key] = value
	}
	return &atf, nil
}

func decodeAvailability(value any) (Availability, error) {
	if value == nil {
		return nil, nil
	}
	m, ok := asMap(value)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", value)
	}

	var fields availabilityFields
	if err := remarshal(m, &fields, true); err != nil {
		return nil, err
	}
	if err := validate.Struct(&fields); err != nil {
		return nil, err
	}
	return Availability(m), nil
}

// rawAvailability devuelve la disponibilidad anterior sin validar. Un valor que
// no es un objeto se trata como ausente: para HasChanged el resultado es el mismo.
func rawAvailability(record sharedEvents.RawRecord) Availability {
	m, ok := asMap(record[AvailabilityKey])
	if !ok {
		return nil
	}
	return Availability(m)
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case sharedEvents.RawRecord:
		return v, true
	case Availability:
		return v, true
	default:
		return nil, false
	}
}

// remarshal pasa por JSON para que los tipos se comprueben de forma estricta
// ("true" no decodifica en un bool).
func remarshal(src any, dest any, strict bool) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(dest)
}
