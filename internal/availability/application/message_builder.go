package application

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/davicafu/availability-relay/internal/availability/domain"
	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
	"github.com/davicafu/availability-relay/internal/shared/infra/utils"
)

// EmailDateLayout: día con dos dígitos, mes completo y año (09 November 2020).
const EmailDateLayout = "02 January 2006"

// BuilderConfig contiene el direccionamiento de los canales de salida.
type BuilderConfig struct {
	QueueURL    string
	TemplateID  string
	LinkBaseURL string
	// Topics resuelve canal lógico -> dirección del topic.
	Topics map[string]string
	// Transport es el nombre del transporte de difusión que aparece en el subject.
	Transport string
}

// MessageBuilder construye los mensajes salientes. No hace I/O.
type MessageBuilder struct {
	cfg      BuilderConfig
	renderer domain.Renderer
}

func NewMessageBuilder(cfg BuilderConfig, renderer domain.Renderer) *MessageBuilder {
	return &MessageBuilder{cfg: cfg, renderer: renderer}
}

// emailDates devuelve las fechas de inicio y fin ya formateadas.
func emailDates(a domain.Availability) (string, string, error) {
	start, err := a.StartDate()
	if err != nil {
		return "", "", err
	}
	end, err := a.EndDate()
	if err != nil {
		return "", "", err
	}
	return start.UTC().Format(EmailDateLayout), end.UTC().Format(EmailDateLayout), nil
}

// BuildEmailSubject construye el asunto del email con frases fijas.
func BuildEmailSubject(name string, a domain.Availability) (string, error) {
	start, end, err := emailDates(a)
	if err != nil {
		return "", fmt.Errorf("%w: subject: %v", domain.ErrMessageBuild, err)
	}
	decision := utils.Ternary(a.IsAvailable(), "can take more bookings", "is fully booked")
	return fmt.Sprintf("%s %s between %s and %s", name, decision, start, end), nil
}

// BuildEmailLink construye el enlace de actualización con el token como query.
func BuildEmailLink(baseURL, token string) string {
	q := url.Values{}
	q.Set("token", token)
	return strings.TrimSuffix(baseURL, "/") + "/update?" + q.Encode()
}

// BuildEmail construye el mensaje de la cola de email para un cambio clasificado.
// La plantilla depende de si el ATF vuelve a tener huecos o está completo.
func (b *MessageBuilder) BuildEmail(c *domain.ChangeClassification, tpl domain.EmailTemplates) (*sharedBus.QueueMessage, error) {
	if c == nil || c.NewAvailability == nil {
		return nil, fmt.Errorf("%w: no availability to notify", domain.ErrMessageBuild)
	}
	a := c.NewAvailability

	start, end, err := emailDates(a)
	if err != nil {
		return nil, fmt.Errorf("%w: atf %s: %v", domain.ErrMessageBuild, c.ATF.ID, err)
	}

	body, err := b.renderer.Render(
		utils.Ternary(a.IsAvailable(), tpl.Available, tpl.FullyBooked),
		map[string]any{
			domain.TplATFName:   c.ATF.Name,
			domain.TplDateStart: start,
			domain.TplDateEnd:   end,
			domain.TplLink:      BuildEmailLink(b.cfg.LinkBaseURL, c.ATF.Token),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: atf %s: render: %v", domain.ErrMessageBuild, c.ATF.ID, err)
	}

	subject, err := BuildEmailSubject(c.ATF.Name, a)
	if err != nil {
		return nil, err
	}

	return &sharedBus.QueueMessage{
		ItemID:   c.ATF.ID,
		QueueURL: b.cfg.QueueURL,
		Body:     body,
		Attributes: map[string]string{
			domain.AttrTemplateID:  b.cfg.TemplateID,
			domain.AttrMessageType: domain.MessageTypeEmail,
			domain.AttrRecipient:   c.ATF.Email,
			domain.AttrSubject:     subject,
		},
	}, nil
}

// BuildBroadcast envuelve la imagen completa, sin transformarla, para un canal
// de difusión.
func (b *MessageBuilder) BuildBroadcast(channel, itemID string, image sharedEvents.RawRecord) (*sharedBus.TopicMessage, error) {
	topic, ok := b.cfg.Topics[channel]
	if !ok || topic == "" {
		return nil, fmt.Errorf("%w: no topic configured for channel %q", domain.ErrMessageBuild, channel)
	}
	payload, err := json.Marshal(image)
	if err != nil {
		return nil, fmt.Errorf("%w: channel %s: %v", domain.ErrMessageBuild, channel, err)
	}
	return &sharedBus.TopicMessage{
		ItemID:  itemID,
		Channel: channel,
		Topic:   topic,
		Subject: fmt.Sprintf("New %s message sent to %s", channel, b.cfg.Transport),
		Payload: payload,
	}, nil
}
