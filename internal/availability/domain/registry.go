package domain

// Canales de salida, en orden de declaración. El orden decide qué error se
// propaga cuando fallan varios canales.
const (
	EmailChannel               = "email"
	AvailabilityHistoryChannel = "availability-history"
)

// Atributos de los mensajes de la cola de email.
const (
	AttrTemplateID  = "templateId"
	AttrMessageType = "messageType"
	AttrRecipient   = "recipient"
	AttrSubject     = "subject"

	MessageTypeEmail = "email"
)

// Claves de la plantilla de email.
const (
	TplATFName   = "atf_name"
	TplDateStart = "additional_open_date_start"
	TplDateEnd   = "additional_open_date_end"
	TplLink      = "link"
)

// Resultado del procesamiento de cada evento, usado como etiqueta de métricas.
const (
	OutcomeDiscarded  = "discarded"
	OutcomeMalformed  = "malformed"
	OutcomeUnchanged  = "unchanged"
	OutcomeChanged    = "changed"
	OutcomeBuildError = "build_error"
)
