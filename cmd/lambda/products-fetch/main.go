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
	"github.com/kolyapvp/products-app/internal/usecase"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Log.SlogLevel(), "products-fetch")

	repo, err := infrastructure.NewFactory(cfg).ProductRepository(context.Background())
	if err != nil {
		logger.Error("failed to init product store", "error", err)
		os.Exit(1)
	}

	lambda.Start(apigw.NewHandler(nil, usecase.NewGetProduct(repo, nil), usecase.NewListProducts(repo)).Fetch)
}
