package main

import (
	"context"
	"fmt"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/go-video-drop/internal/bootstrap"
	"github.com/go-video-drop/internal/config"
	"github.com/go-video-drop/internal/logger"
	transporthttp "github.com/go-video-drop/internal/transport/http"
	"github.com/go-video-drop/internal/transport/lambda"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("lambda", cfg.LogLevel)

	deps, err := bootstrap.Deps(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build dependencies")
	}

	awslambda.Start(lambda.NewHandler(transporthttp.NewRouter(cfg, deps)))
}
