package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	lambdaIn "github.com/davicafu/availability-relay/internal/availability/infra/inbound/lambda"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Arranca el runtime de AWS Lambda con el handler de DynamoDB Streams",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		app, err := newRelayApp(cmd.Context(), cfg, log)
		if err != nil {
			log.Error("❌ No se pudo inicializar el relay", zap.Error(err))
			return err
		}
		defer app.Close()

		awslambda.Start(lambdaIn.NewHandler(app.service, log).Handle)
		return nil
	},
}
