package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	streamEvents "github.com/davicafu/availability-relay/internal/availability/infra/inbound/events"
	streamHttp "github.com/davicafu/availability-relay/internal/availability/infra/inbound/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Arranca el servidor HTTP y, si hay STREAM_TOPIC, el consumidor de Kafka",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := newRelayApp(ctx, cfg, log)
		if err != nil {
			log.Error("❌ No se pudo inicializar el relay", zap.Error(err))
			return err
		}
		defer app.Close()

		g, gctx := errgroup.WithContext(ctx)

		// ---------------- Stream ----------------
		if cfg.StreamTopic != "" {
			reader := kafka.NewReader(kafka.ReaderConfig{
				Brokers:  cfg.KafkaBrokers,
				Topic:    cfg.StreamTopic,
				GroupID:  cfg.StreamGroupID,
				MinBytes: 10e3, // 10KB
				MaxBytes: 10e6, // 10MB
			})
			defer reader.Close()

			consumer := streamEvents.NewStreamConsumer(reader, app.service, streamEvents.RetryPolicy{
				Attempts: cfg.StreamRetryAttempts,
				Delay:    cfg.StreamRetryDelay,
			}, log)
			g.Go(func() error {
				consumer.Run(gctx)
				return nil
			})
		}

		// ---------------- HTTP ----------------
		router := gin.Default()
		streamHttp.RegisterStreamRoutes(router, streamHttp.NewStreamHandler(app.service, log))
		streamHttp.RegisterOpsRoutes(router, app.registry)

		srv := &http.Server{
			Addr:              ":" + cfg.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			log.Info("🚀 Server running", zap.String("url", "http://localhost:"+cfg.HTTPPort))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		if err := g.Wait(); err != nil {
			log.Error("❌ El servidor terminó con error", zap.Error(err))
			return err
		}
		log.Info("👋 Relay detenido")
		return nil
	},
}
