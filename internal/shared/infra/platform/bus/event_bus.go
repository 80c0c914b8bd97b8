package bus

import "context"

// Keyer identifica un mensaje saliente. La clave sirve a la vez como
// identidad del item en el recuento de resultados y como clave de partición.
type Keyer interface {
	PartitionKey() string
}

// Sender entrega un único mensaje a un transporte concreto.
// La semántica de topic/cola y el formato del payload los deciden los adapters.
type Sender[M Keyer] interface {
	Send(ctx context.Context, msg M) error
}

// QueueMessage es una petición para una cola (p. ej. SQS) con atributos
// tipados separados del cuerpo.
type QueueMessage struct {
	ItemID     string
	QueueURL   string
	Body       string
	Attributes map[string]string
}

func (m *QueueMessage) PartitionKey() string {
	return m.ItemID
}

// TopicMessage es una petición para un canal de difusión (SNS, Kafka, NATS...).
type TopicMessage struct {
	ItemID  string
	Channel string
	Topic   string
	Subject string
	Payload []byte
}

func (m *TopicMessage) PartitionKey() string {
	return m.ItemID
}

// Verificación estática
var (
	_ Keyer = (*QueueMessage)(nil)
	_ Keyer = (*TopicMessage)(nil)
)
