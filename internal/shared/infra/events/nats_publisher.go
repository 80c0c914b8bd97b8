package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
	"github.com/davicafu/availability-relay/internal/shared/infra/relayer"
)

// Cabeceras NATS de los mensajes de difusión.
const (
	NATSHeaderSubject = "Subject"
	NATSHeaderItemID  = "Item-Id"
)

// ErrNATSDisconnected: la conexión no está disponible al construir el canal.
var ErrNATSDisconnected = errors.New("nats connection is not available")

// NATSConn es la parte de *nats.Conn que usa el publisher.
type NATSConn interface {
	PublishMsg(m *nats.Msg) error
	IsConnected() bool
}

// NATSPublisher publica mensajes de difusión en subjects de NATS. El topic del
// mensaje se usa como subject NATS.
type NATSPublisher struct {
	conn NATSConn
	log  *zap.Logger
}

func NewNATSPublisher(conn NATSConn, log *zap.Logger) *NATSPublisher {
	return &NATSPublisher{conn: conn, log: log}
}

func (p *NATSPublisher) Send(ctx context.Context, msg *sharedBus.TopicMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.Topic == "" {
		return fmt.Errorf("nats: message %s has no topic", msg.ItemID)
	}

	m := nats.NewMsg(msg.Topic)
	m.Data = msg.Payload
	m.Header.Set(NATSHeaderSubject, msg.Subject)
	m.Header.Set(NATSHeaderItemID, msg.ItemID)

	if err := p.conn.PublishMsg(m); err != nil {
		p.log.Error("Error publishing to NATS",
			zap.String("subject", msg.Topic),
			zap.String("item_id", msg.ItemID),
			zap.Error(err))
		return err
	}
	return nil
}

// SenderFactory comprueba la conexión en cada invocación. Si está caída el
// canal entero falla en lugar de fallar item a item.
func (p *NATSPublisher) SenderFactory() relayer.SenderFactory[*sharedBus.TopicMessage] {
	return func(context.Context) (sharedBus.Sender[*sharedBus.TopicMessage], error) {
		if !p.conn.IsConnected() {
			return nil, ErrNATSDisconnected
		}
		return p, nil
	}
}

// Verificación estática
var _ sharedBus.Sender[*sharedBus.TopicMessage] = (*NATSPublisher)(nil)
