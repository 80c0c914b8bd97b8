package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/availability/domain"
	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
)

// Recorder recibe los resultados por evento y por invocación.
type Recorder interface {
	RecordEvent(kind, outcome string)
	RecordInvocation(err error)
}

type invocationKey struct{}

// WithInvocationID asocia un id de invocación al contexto para los logs.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

// InvocationID devuelve el id de la invocación o genera uno nuevo.
func InvocationID(ctx context.Context) string {
	if id, ok := ctx.Value(invocationKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// RelayService procesa un lote de eventos de cambio y reparte las
// notificaciones entre el canal de email y el de histórico.
type RelayService struct {
	detector  domain.ChangeDetector
	builder   *MessageBuilder
	templates domain.TemplateSource
	email     domain.ChannelPublisher[*sharedBus.QueueMessage]
	history   domain.ChannelPublisher[*sharedBus.TopicMessage]
	recorder  Recorder
	log       *zap.Logger
}

// NewRelayService constructor. recorder puede ser nil.
func NewRelayService(
	detector domain.ChangeDetector,
	builder *MessageBuilder,
	templates domain.TemplateSource,
	email domain.ChannelPublisher[*sharedBus.QueueMessage],
	history domain.ChannelPublisher[*sharedBus.TopicMessage],
	recorder Recorder,
	log *zap.Logger,
) *RelayService {
	return &RelayService{
		detector:  detector,
		builder:   builder,
		templates: templates,
		email:     email,
		history:   history,
		recorder:  recorder,
		log:       log,
	}
}

// ProcessBatch ejecuta una invocación completa sobre el lote.
//
// Solo los eventos MODIFY se procesan. Un registro mal formado se salta sin
// afectar al resto. Tras recorrer el lote se publican los canales no vacíos en
// paralelo y, si alguno falla, se devuelve el primer error en orden de
// declaración (email, después histórico).
func (s *RelayService) ProcessBatch(ctx context.Context, batch []sharedEvents.ChangeEvent) (err error) {
	log := s.log.With(zap.String("invocation_id", InvocationID(ctx)))
	defer func() {
		if s.recorder != nil {
			s.recorder.RecordInvocation(err)
		}
	}()

	log.Info("🚀 Relay invocado", zap.Int("records", len(batch)))

	tpl, err := s.templates.Load(ctx)
	if err != nil {
		log.Error("❌ Abortando invocación: sin plantillas", zap.Error(err))
		return err
	}

	var (
		emails  []*sharedBus.QueueMessage
		history []*sharedBus.TopicMessage
	)

	for _, evt := range batch {
		elog := log.With(
			zap.String("event_id", evt.EventID),
			zap.String("kind", string(evt.Kind)),
		)

		if evt.Kind != sharedEvents.KindModified {
			elog.Info("Descartando evento")
			s.recordEvent(evt.Kind, domain.OutcomeDiscarded)
			continue
		}

		elog.Debug("Procesando evento", zap.String("record", evt.After.JSON()))

		c, err := s.detector.Extract(evt.Before, evt.After)
		if err != nil {
			elog.Error("❌ Registro mal formado, se salta", zap.Error(err))
			s.recordEvent(evt.Kind, domain.OutcomeMalformed)
			continue
		}
		elog = elog.With(zap.String("atf_id", c.ATF.ID))

		// El histórico recibe la imagen anterior de todo MODIFY clasificado. Un
		// fallo aquí no afecta al email del mismo evento.
		if evt.Before != nil {
			msg, err := s.builder.BuildBroadcast(domain.AvailabilityHistoryChannel, c.ATF.ID, evt.Before)
			if err != nil {
				elog.Error("❌ No se pudo construir el mensaje de histórico", zap.Error(err))
				s.recordEvent(evt.Kind, domain.OutcomeBuildError)
			} else {
				history = append(history, msg)
			}
		}

		if !s.detector.HasChanged(c.OldAvailability, c.NewAvailability) {
			elog.Debug("Sin cambios de disponibilidad")
			s.recordEvent(evt.Kind, domain.OutcomeUnchanged)
			continue
		}

		msg, err := s.builder.BuildEmail(c, tpl)
		if err != nil {
			elog.Error("❌ No se pudo construir el email", zap.Error(err))
			s.recordEvent(evt.Kind, domain.OutcomeBuildError)
			continue
		}
		emails = append(emails, msg)
		s.recordEvent(evt.Kind, domain.OutcomeChanged)
	}

	if err := s.publish(ctx, log, emails, history); err != nil {
		return err
	}

	log.Info("✅ Relay completado",
		zap.Int("emails", len(emails)),
		zap.Int("history", len(history)),
	)
	return nil
}

type channelRun struct {
	name string
	run  func() error
}

// publish lanza cada canal no vacío en su propia goroutine y espera a todos.
// El fallo de un canal nunca impide que se intente el otro.
func (s *RelayService) publish(
	ctx context.Context,
	log *zap.Logger,
	emails []*sharedBus.QueueMessage,
	history []*sharedBus.TopicMessage,
) error {
	var runs []channelRun
	if len(emails) > 0 {
		runs = append(runs, channelRun{
			name: domain.EmailChannel,
			run:  func() error { return s.email.Publish(ctx, emails) },
		})
	}
	if len(history) > 0 {
		runs = append(runs, channelRun{
			name: domain.AvailabilityHistoryChannel,
			run:  func() error { return s.history.Publish(ctx, history) },
		})
	}

	errs := make([]error, len(runs))
	var wg sync.WaitGroup
	for i, r := range runs {
		i, r := i, r
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = r.run()
		}()
	}
	wg.Wait()

	var first error
	for i, err := range errs {
		if err == nil {
			continue
		}
		log.Error("❌ Error publicando mensajes del canal",
			zap.String("channel", runs[i].name),
			zap.Error(err),
		)
		if first == nil {
			first = fmt.Errorf("channel %s: %w", runs[i].name, err)
		}
	}
	return first
}

func (s *RelayService) recordEvent(kind sharedEvents.EventKind, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordEvent(string(kind), outcome)
	}
}
