package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/davicafu/availability-relay/internal/availability/domain"
)

// Drivers de difusión soportados.
const (
	DriverSNS    = "sns"
	DriverKafka  = "kafka"
	DriverNATS   = "nats"
	DriverMemory = "memory"
)

// Config se carga una sola vez al arrancar y se inyecta en cada componente.
type Config struct {
	Environment string `env:"ENVIRONMENT,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	AWSRegion        string `env:"AWS_DEFAULT_REGION,required,notEmpty"`
	AWSEndpoint      string `env:"AWS_DEFAULT_ENDPOINT"`
	S3ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`

	TemplateBucket         string        `env:"TEMPLATE_BUCKET,required,notEmpty"`
	AvailableTemplateKey   string        `env:"AVAILABLE_TEMPLATE_KEY,required,notEmpty"`
	FullyBookedTemplateKey string        `env:"FULLY_BOOKED_TEMPLATE_KEY,required,notEmpty"`
	TemplateCacheTTL       time.Duration `env:"TEMPLATE_CACHE_TTL" envDefault:"5m"`
	RedisAddr              string        `env:"REDIS_ADDR"`

	EmailQueueURL    string `env:"EMAIL_QUEUE_URL,required,notEmpty"`
	EmailTemplateID  string `env:"EMAIL_TEMPLATE_ID,required,notEmpty"`
	EmailLinkBaseURL string `env:"EMAIL_LINK_BASE_URL,required,notEmpty"`

	// BroadcastTopics: canal=dirección separados por comas.
	BroadcastTopics map[string]string `env:"BROADCAST_TOPICS,required,notEmpty" envSeparator:"," envKeyValSeparator:"="`
	BroadcastDriver string            `env:"BROADCAST_DRIVER" envDefault:"sns"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	NATSURL      string   `env:"NATS_URL"`

	StreamTopic         string        `env:"STREAM_TOPIC"`
	StreamGroupID       string        `env:"STREAM_GROUP_ID" envDefault:"availability-relay"`
	StreamRetryAttempts int           `env:"STREAM_RETRY_ATTEMPTS" envDefault:"3"`
	StreamRetryDelay    time.Duration `env:"STREAM_RETRY_DELAY" envDefault:"2s"`

	FanoutConcurrency int    `env:"FANOUT_CONCURRENCY" envDefault:"16"`
	HTTPPort          string `env:"HTTP_PORT" envDefault:"8080"`
}

// LoadConfig lee la configuración del entorno. Una variable obligatoria
// ausente es un error de arranque.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate comprueba las combinaciones que env no puede expresar.
func (c *Config) Validate() error {
	var errs []error

	switch c.BroadcastDriver {
	case DriverSNS, DriverMemory:
	case DriverKafka:
		if len(c.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("BROADCAST_DRIVER=kafka requires KAFKA_BROKERS"))
		}
	case DriverNATS:
		if c.NATSURL == "" {
			errs = append(errs, errors.New("BROADCAST_DRIVER=nats requires NATS_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BROADCAST_DRIVER %q", c.BroadcastDriver))
	}

	if c.BroadcastTopics[domain.AvailabilityHistoryChannel] == "" {
		errs = append(errs, fmt.Errorf("BROADCAST_TOPICS has no address for %q", domain.AvailabilityHistoryChannel))
	}
	if c.StreamTopic != "" && len(c.KafkaBrokers) == 0 {
		errs = append(errs, errors.New("STREAM_TOPIC requires KAFKA_BROKERS"))
	}
	if c.StreamRetryAttempts < 1 {
		errs = append(errs, errors.New("STREAM_RETRY_ATTEMPTS must be at least 1"))
	}

	return errors.Join(errs...)
}

// TransportName es el nombre del transporte de difusión que se muestra en los
// subjects de los mensajes.
func (c *Config) TransportName() string {
	switch c.BroadcastDriver {
	case DriverSNS:
		return "SNS"
	case DriverKafka:
		return "Kafka"
	case DriverNATS:
		return "NATS"
	default:
		return c.BroadcastDriver
	}
}
