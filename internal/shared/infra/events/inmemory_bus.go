package events

import (
	"context"
	"fmt"
	"sync"

	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
)

// InMemoryEventBus reparte mensajes de difusión entre suscriptores del mismo
// proceso, por topic. Útil en local y en tests.
type InMemoryEventBus struct {
	subscribers map[string][]chan *sharedBus.TopicMessage
	mu          sync.RWMutex
	closed      bool
}

// Verificación estática
var _ sharedBus.Sender[*sharedBus.TopicMessage] = (*InMemoryEventBus)(nil)

func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string][]chan *sharedBus.TopicMessage),
	}
}

// Send entrega el mensaje a todos los suscriptores del topic sin bloquear.
// Si el buffer de algún suscriptor está lleno el envío cuenta como fallido.
func (b *InMemoryEventBus) Send(ctx context.Context, msg *sharedBus.TopicMessage) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("in-memory bus closed")
	}

	dropped := 0
	for _, sub := range b.subscribers[msg.Topic] {
		select {
		case sub <- msg:
		case <-ctx.Done():
			return ctx.Err()
		default:
			dropped++
		}
	}
	if dropped > 0 {
		return fmt.Errorf("in-memory bus: %d subscriber(s) of %s are full", dropped, msg.Topic)
	}
	return nil
}

// Subscribe registra un oyente para un topic.
func (b *InMemoryEventBus) Subscribe(topic string, bufferSize int) <-chan *sharedBus.TopicMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(chan *sharedBus.TopicMessage, bufferSize)
	b.subscribers[topic] = append(b.subscribers[topic], sub)
	return sub
}

// Close cierra todos los canales de suscripción. Es idempotente.
func (b *InMemoryEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, subs := range b.subscribers {
		for _, sub := range subs {
			close(sub)
		}
	}
}
