package domain

import (
	"fmt"
	"reflect"
	"time"
)

// Claves del sub-registro de disponibilidad, tal y como llegan en la imagen.
const (
	FieldLastUpdated = "lastUpdated"
	FieldStartDate   = "startDate"
	FieldEndDate     = "endDate"
	FieldIsAvailable = "isAvailable"
)

// Availability es el sub-registro de disponibilidad de un ATF con sus valores
// originales. nil significa que la imagen no trae disponibilidad.
// Solo la de la imagen nueva se valida; la anterior se compara tal cual.
type Availability map[string]any

// IsAvailable devuelve false si el campo no es un booleano.
func (a Availability) IsAvailable() bool {
	v, _ := a[FieldIsAvailable].(bool)
	return v
}

func (a Availability) StartDate() (time.Time, error) {
	return a.timeField(FieldStartDate)
}

func (a Availability) EndDate() (time.Time, error) {
	return a.timeField(FieldEndDate)
}

func (a Availability) timeField(key string) (time.Time, error) {
	s, ok := a[key].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("availability.%s is not a string", key)
	}
	return ParseISO8601(s)
}

// HasChanged decide si el cambio de disponibilidad es notificable.
//
// Si la disponibilidad se borró (había y ya no hay) no se notifica: no es una
// señal accionable para los consumidores. En el resto de casos hay cambio si
// los dos valores no son estrictamente iguales campo a campo (true != "true").
func HasChanged(oldAvailability, newAvailability Availability) bool {
	if oldAvailability != nil && newAvailability == nil {
		return false
	}
	return !reflect.DeepEqual(oldAvailability, newAvailability)
}
