package relayer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
)

// ErrChannelPublish se devuelve solo cuando no se pudo construir el transporte
// del canal. Los fallos de envío por item nunca se propagan como error.
var ErrChannelPublish = errors.New("channel publish failed")

// SenderFactory construye el transporte de un canal para una invocación.
type SenderFactory[M sharedBus.Keyer] func(ctx context.Context) (sharedBus.Sender[M], error)

// StaticSender envuelve un transporte ya construido.
func StaticSender[M sharedBus.Keyer](sender sharedBus.Sender[M]) SenderFactory[M] {
	return func(context.Context) (sharedBus.Sender[M], error) {
		return sender, nil
	}
}

// DispatchRecorder recibe un aviso por cada item despachado (métricas).
type DispatchRecorder interface {
	RecordDispatch(channel string, succeeded bool)
}

// DispatchOutcome es el resultado de un intento de publicación.
type DispatchOutcome struct {
	ItemID    string
	Succeeded bool
	Err       error
}

func (o DispatchOutcome) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("item_id", o.ItemID)
	if o.Err != nil {
		enc.AddString("error", o.Err.Error())
	}
	return nil
}

type outcomes []DispatchOutcome

func (list outcomes) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, o := range list {
		if err := enc.AppendObject(o); err != nil {
			return err
		}
	}
	return nil
}

// BatchResult resume un lote publicado en un canal.
type BatchResult struct {
	Channel    string
	Processed  int
	Successful []string
	Failed     []DispatchOutcome
}

// FanoutPublisher publica un lote de mensajes de un canal lógico: envía cada
// item de forma concurrente e independiente y agrega los resultados.
type FanoutPublisher[M sharedBus.Keyer] struct {
	channel     string
	newSender   SenderFactory[M]
	concurrency int
	recorder    DispatchRecorder
	log         *zap.Logger
}

// NewFanoutPublisher crea el publisher de un canal. concurrency <= 0 no limita
// el número de envíos en vuelo; recorder puede ser nil.
func NewFanoutPublisher[M sharedBus.Keyer](
	channel string,
	newSender SenderFactory[M],
	concurrency int,
	recorder DispatchRecorder,
	log *zap.Logger,
) *FanoutPublisher[M] {
	return &FanoutPublisher[M]{
		channel:     channel,
		newSender:   newSender,
		concurrency: concurrency,
		recorder:    recorder,
		log:         log.With(zap.String("channel", channel)),
	}
}

func (p *FanoutPublisher[M]) Channel() string {
	return p.channel
}

// Publish publica el lote y solo falla si el transporte no pudo construirse.
func (p *FanoutPublisher[M]) Publish(ctx context.Context, msgs []M) error {
	_, err := p.PublishBatch(ctx, msgs)
	return err
}

// PublishBatch envía todos los mensajes, espera a que terminen y registra un
// resumen. Un fallo de un item nunca cancela a los demás.
func (p *FanoutPublisher[M]) PublishBatch(ctx context.Context, msgs []M) (BatchResult, error) {
	sender, err := p.newSender(ctx)
	if err != nil {
		return BatchResult{Channel: p.channel}, fmt.Errorf("%w (%s): %w", ErrChannelPublish, p.channel, err)
	}

	// Cada goroutine escribe solo en su propia posición.
	results := make([]DispatchOutcome, len(msgs))

	var g errgroup.Group
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}
	for i, msg := range msgs {
		i, msg := i, msg
		g.Go(func() error {
			results[i] = p.dispatch(ctx, sender, msg)
			return nil
		})
	}
	_ = g.Wait()

	res := partition(p.channel, results)
	p.logSummary(res)
	return res, nil
}

func (p *FanoutPublisher[M]) dispatch(ctx context.Context, sender sharedBus.Sender[M], msg M) (out DispatchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out.Succeeded = false
			out.Err = fmt.Errorf("panic while dispatching: %v", r)
		}
		if p.recorder != nil {
			p.recorder.RecordDispatch(p.channel, out.Succeeded)
		}
	}()

	out.ItemID = msg.PartitionKey()
	if err := sender.Send(ctx, msg); err != nil {
		out.Err = err
		return out
	}
	out.Succeeded = true
	return out
}

func partition(channel string, results []DispatchOutcome) BatchResult {
	res := BatchResult{
		Channel:    channel,
		Processed:  len(results),
		Successful: make([]string, 0, len(results)),
	}
	for _, o := range results {
		if o.Succeeded {
			res.Successful = append(res.Successful, o.ItemID)
		} else {
			res.Failed = append(res.Failed, o)
		}
	}
	return res
}

func (p *FanoutPublisher[M]) logSummary(res BatchResult) {
	if len(res.Failed) == 0 {
		p.log.Info("✅ Todos los mensajes publicados correctamente")
	} else {
		p.log.Warn("⚠️ No se pudieron publicar algunos mensajes",
			zap.Array("failed", outcomes(res.Failed)),
		)
	}
	p.log.Info("📊 Mensajes procesados",
		zap.Int("processed", res.Processed),
		zap.Int("successful", len(res.Successful)),
		zap.Int("failed", len(res.Failed)),
	)
}
