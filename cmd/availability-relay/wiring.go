package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/availability/application"
	"github.com/davicafu/availability-relay/internal/availability/domain"
	"github.com/davicafu/availability-relay/internal/availability/infra/outbound/templates"
	"github.com/davicafu/availability-relay/internal/config"
	infraEvents "github.com/davicafu/availability-relay/internal/shared/infra/events"
	"github.com/davicafu/availability-relay/internal/shared/infra/metrics"
	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
	sharedCache "github.com/davicafu/availability-relay/internal/shared/infra/platform/cache"
	"github.com/davicafu/availability-relay/internal/shared/infra/relayer"
)

// *metrics.Metrics cubre tanto los resultados por evento como los envíos.
var (
	_ application.Recorder     = (*metrics.Metrics)(nil)
	_ relayer.DispatchRecorder = (*metrics.Metrics)(nil)
)

// relayApp agrupa el servicio ya cableado y los recursos a cerrar al salir.
type relayApp struct {
	service  *application.RelayService
	registry *prometheus.Registry
	closers  []func()
}

func (a *relayApp) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newRelayApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*relayApp, error) {
	app := &relayApp{registry: prometheus.NewRegistry()}
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(app.registry)

	// ---------------- AWS ----------------
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.AWSEndpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.AWSEndpoint)
	}

	// ---------------- Cache ----------------
	cache := newTemplateCache(ctx, cfg, log, app)

	// -------------- Plantillas -------------
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3ForcePathStyle
	})
	store := templates.NewCachedStore(templates.NewS3Store(s3Client), cache, cfg.TemplateCacheTTL, log)
	loader := application.NewTemplateLoader(store, application.TemplateLocation{
		Bucket:         cfg.TemplateBucket,
		AvailableKey:   cfg.AvailableTemplateKey,
		FullyBookedKey: cfg.FullyBookedTemplateKey,
	}, log)

	builder := application.NewMessageBuilder(application.BuilderConfig{
		QueueURL:    cfg.EmailQueueURL,
		TemplateID:  cfg.EmailTemplateID,
		LinkBaseURL: cfg.EmailLinkBaseURL,
		Topics:      cfg.BroadcastTopics,
		Transport:   cfg.TransportName(),
	}, templates.NewPongoRenderer())

	// ---------------- Canales ----------------
	emailSender := infraEvents.NewSQSSender(sqs.NewFromConfig(awsCfg), log)
	email := relayer.NewFanoutPublisher(
		domain.EmailChannel,
		relayer.StaticSender[*sharedBus.QueueMessage](emailSender),
		cfg.FanoutConcurrency,
		m,
		log,
	)

	historySender, err := newBroadcastSender(cfg, awsCfg, log, app)
	if err != nil {
		app.Close()
		return nil, err
	}
	history := relayer.NewFanoutPublisher(
		domain.AvailabilityHistoryChannel,
		historySender,
		cfg.FanoutConcurrency,
		m,
		log,
	)

	// --------------- Servicio --------------
	app.service = application.NewRelayService(
		domain.AvailabilityDetector{},
		builder,
		loader,
		email,
		history,
		m,
		log,
	)
	return app, nil
}

// newTemplateCache usa Redis si responde y, si no, una caché en memoria.
func newTemplateCache(ctx context.Context, cfg *config.Config, log *zap.Logger, app *relayApp) sharedCache.Cache {
	inMemory := func() sharedCache.Cache {
		c := sharedCache.NewInMemoryCache(cfg.TemplateCacheTTL, 3*cfg.TemplateCacheTTL)
		app.closers = append(app.closers, c.Stop)
		return c
	}

	if cfg.RedisAddr == "" {
		log.Info("⚡️ Cache de plantillas en memoria")
		return inMemory()
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria", zap.Error(err))
		_ = rdb.Close()
		return inMemory()
	}

	log.Info("✅ Redis conectado, cache de plantillas habilitado")
	app.closers = append(app.closers, func() { _ = rdb.Close() })
	return sharedCache.NewRedisCache(rdb, cfg.TemplateCacheTTL, "availability-relay:")
}

// newBroadcastSender construye el transporte de difusión según BROADCAST_DRIVER.
func newBroadcastSender(cfg *config.Config, awsCfg aws.Config, log *zap.Logger, app *relayApp) (relayer.SenderFactory[*sharedBus.TopicMessage], error) {
	switch cfg.BroadcastDriver {
	case config.DriverSNS:
		log.Info("🚀 Usando SNS como transporte de difusión")
		return relayer.StaticSender[*sharedBus.TopicMessage](
			infraEvents.NewSNSPublisher(sns.NewFromConfig(awsCfg), log),
		), nil

	case config.DriverKafka:
		log.Info("🚀 Usando Kafka como transporte de difusión")
		// Sin topic por defecto: cada mensaje lleva el suyo.
		writer := &kafka.Writer{
			Addr:         kafka.TCP(cfg.KafkaBrokers...),
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		}
		app.closers = append(app.closers, func() { _ = writer.Close() })
		return relayer.StaticSender[*sharedBus.TopicMessage](infraEvents.NewKafkaPublisher(writer, log)), nil

	case config.DriverNATS:
		log.Info("🚀 Usando NATS como transporte de difusión")
		nc, err := nats.Connect(cfg.NATSURL,
			nats.Name("availability-relay"),
			nats.MaxReconnects(-1),
		)
		if err != nil {
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		app.closers = append(app.closers, func() { _ = nc.Drain() })
		return infraEvents.NewNATSPublisher(nc, log).SenderFactory(), nil

	case config.DriverMemory:
		log.Info("⚡️ Usando bus de difusión en memoria (canales de Go)")
		bus := infraEvents.NewInMemoryEventBus()
		for channel, topic := range cfg.BroadcastTopics {
			logBroadcasts(bus.Subscribe(topic, 100), channel, log)
		}
		app.closers = append(app.closers, bus.Close)
		return relayer.StaticSender[*sharedBus.TopicMessage](bus), nil

	default:
		return nil, fmt.Errorf("unknown broadcast driver %q", cfg.BroadcastDriver)
	}
}

// logBroadcasts registra los mensajes del bus en memoria hasta que se cierra.
func logBroadcasts(sub <-chan *sharedBus.TopicMessage, channel string, log *zap.Logger) {
	log.Info("🎧 Iniciando listener en memoria", zap.String("channel", channel))
	go func() {
		for msg := range sub {
			log.Info("📨 Mensaje de difusión recibido",
				zap.String("channel", channel),
				zap.String("item_id", msg.ItemID),
				zap.String("subject", msg.Subject),
				zap.ByteString("payload", msg.Payload),
			)
		}
	}()
}
