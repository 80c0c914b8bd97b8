package events

import (
	"encoding/json"
)

// EventKind es el tipo de mutación que informa el stream de cambios.
type EventKind string

const (
	KindCreated  EventKind = "INSERT"
	KindModified EventKind = "MODIFY"
	KindDeleted  EventKind = "REMOVE"
)

// RawRecord es una imagen de fila ya decodificada a valores Go planos
// (string, bool, json.Number, []byte, []any, map[string]any o nil).
type RawRecord map[string]any

// JSON devuelve la imagen serializada; se usa sobre todo para logs.
func (r RawRecord) JSON() string {
	data, err := json.Marshal(r)
	if err != nil {
		return "<unserializable record>"
	}
	return string(data)
}

// ChangeEvent es una unidad del stream de cambios. Before y After son nil
// cuando el stream no trae esa imagen.
type ChangeEvent struct {
	EventID string    `json:"event_id,omitempty"`
	Kind    EventKind `json:"kind"`
	Before  RawRecord `json:"before,omitempty"`
	After   RawRecord `json:"after,omitempty"`
}
