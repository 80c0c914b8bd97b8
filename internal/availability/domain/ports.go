package domain

import (
	"context"

	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
)

// ChangeDetector agrupa la extracción y la clasificación de un cambio.
type ChangeDetector interface {
	Extract(before, after sharedEvents.RawRecord) (*ChangeClassification, error)
	HasChanged(oldAvailability, newAvailability Availability) bool
}

// AvailabilityDetector es la implementación por defecto de ChangeDetector.
type AvailabilityDetector struct{}

func (AvailabilityDetector) Extract(before, after sharedEvents.RawRecord) (*ChangeClassification, error) {
	return Extract(before, after)
}

func (AvailabilityDetector) HasChanged(oldAvailability, newAvailability Availability) bool {
	return HasChanged(oldAvailability, newAvailability)
}

// EmailTemplates contiene el texto sin renderizar de las dos plantillas de email.
type EmailTemplates struct {
	Available   string
	FullyBooked string
}

// TemplateStore obtiene el texto de una plantilla de un almacén de objetos.
type TemplateStore interface {
	FetchTemplate(ctx context.Context, bucket, key string) (string, error)
}

// TemplateSource carga las plantillas de email de una invocación.
type TemplateSource interface {
	Load(ctx context.Context) (EmailTemplates, error)
}

// Renderer renderiza una plantilla con los valores dados.
type Renderer interface {
	Render(templateText string, values map[string]any) (string, error)
}

// ChannelPublisher publica un lote de mensajes en un canal lógico. Solo
// devuelve error si el canal en conjunto falló, no por fallos de items sueltos.
type ChannelPublisher[M sharedBus.Keyer] interface {
	Publish(ctx context.Context, msgs []M) error
}

var _ ChangeDetector = AvailabilityDetector{}

// BatchProcessor ejecuta una invocación sobre un lote del stream de cambios.
// Lo usan todos los adaptadores de entrada (Lambda, Kafka, HTTP, replay).
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, batch []sharedEvents.ChangeEvent) error
}
