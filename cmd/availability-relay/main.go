package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/config"
	"github.com/davicafu/availability-relay/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "availability-relay",
	Short: "Relay de cambios de disponibilidad de ATFs",
	Long: `availability-relay consume eventos de DynamoDB Streams de la tabla de ATFs,
detecta cambios de disponibilidad y los notifica por la cola de emails y
los canales de difusión configurados.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, lambdaCmd, replayCmd)
}

// bootstrap carga la configuración y el logger. Se llama una vez por proceso.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log = log.With(zap.String("environment", cfg.Environment))
	return cfg, log, nil
}

// ---------------- Main ----------------
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
