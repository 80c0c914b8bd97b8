package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/availability/application"
	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Procesa un lote de DynamoDB Streams guardado en un fichero",
	Example: `  availability-relay replay --file batch.json
  availability-relay replay --file dlq/2020-11-09.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		payload, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read batch: %w", err)
		}
		batch, err := sharedEvents.ParseDynamoDBEvent(payload)
		if err != nil {
			return err
		}

		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		app, err := newRelayApp(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := application.WithInvocationID(cmd.Context(), "replay-"+uuid.NewString())
		if err := app.service.ProcessBatch(ctx, batch); err != nil {
			log.Error("❌ Replay fallido", zap.String("file", file), zap.Error(err))
			return err
		}
		log.Info("✅ Replay completado", zap.String("file", file), zap.Int("records", len(batch)))
		return nil
	},
}

func init() {
	replayCmd.Flags().String("file", "", "fichero JSON con el lote (formato DynamoDB Streams)")
	_ = replayCmd.MarkFlagRequired("file")
}
