// Command console is the Lambda entrypoint for the order fulfilment console
// backend: token formatting, barcode correction, order sync and the daily
// report, all served over API Gateway.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/api/handlers"
	"github.com/Liiaam93/token-tool/internal/api/middleware"
	"github.com/Liiaam93/token-tool/internal/common/config"
	"github.com/Liiaam93/token-tool/internal/domain/account"
	"github.com/Liiaam93/token-tool/internal/domain/order"
	"github.com/Liiaam93/token-tool/internal/domain/report"
	"github.com/Liiaam93/token-tool/internal/platform/medhub"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	session := medhub.NewSession()
	loginClient := medhub.NewLoginClient(cfg, logger)
	portal := medhub.NewClient(cfg, session, logger)

	orderService := order.NewService(portal, cfg.PageSize, cfg.MaxPages, cfg.FastMaxPages, logger)
	reportService := report.NewService(orderService, logger)
	accountService := account.NewService(portal, logger)

	handler := handlers.NewHandler(orderService, reportService, accountService, loginClient, session, cfg)

	chained := middleware.Chain(
		handler.Route,
		middleware.NewLoggingMiddleware().Handle,
		middleware.NewRecoveryMiddleware().Handle,
	)

	logger.Info("console starting",
		zap.String("environment", cfg.Environment),
		zap.Bool("lambda", cfg.IsLambda()))

	lambda.Start(func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return chained(ctx, logger, request)
	})
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
