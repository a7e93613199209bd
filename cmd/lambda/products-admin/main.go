package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/kolyapvp/products-app/internal/api/apigw"
	"github.com/kolyapvp/products-app/internal/application/factories/infrastructure"
	"github.com/kolyapvp/products-app/internal/config"
	"github.com/kolyapvp/products-app/internal/logging"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.SlogLevel(), "products-admin")
	ctx := context.Background()

	admin, err := infrastructure.NewFactory(cfg).AdminProduct(ctx, nil)
	if err != nil {
		logger.Error("failed to init admin handler", "error", err)
		os.Exit(1)
	}

	lambda.Start(apigw.NewHandler(admin, nil, nil).Admin)
}
