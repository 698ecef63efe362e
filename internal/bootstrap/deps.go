// Package bootstrap wires configuration into the router dependencies shared
// by the HTTP server and the Lambda entry point.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-video-drop/internal/application/notification"
	"github.com/go-video-drop/internal/config"
	s3infra "github.com/go-video-drop/internal/infrastructure/s3"
	"github.com/go-video-drop/internal/infrastructure/sns"
	"github.com/go-video-drop/internal/logger"
	transporthttp "github.com/go-video-drop/internal/transport/http"
)

// Deps builds the router dependencies. Missing storage or email settings
// disable the affected feature with a warning instead of failing startup.
func Deps(ctx context.Context, cfg *config.Config, log *logger.Logger) (*transporthttp.Deps, error) {
	var s3Client *s3.Client
	if cfg.StorageConfigured() {
		c, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		s3Client = c
	} else {
		log.Warn().Msg("S3_BUCKET_NAME or AWS credentials not set; presigning disabled")
	}
	store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	sender := notification.NewSender(cfg.Email)
	if sender == nil {
		log.Warn().Str("provider", cfg.Email.Provider).Msg("email transport not configured; notifications will be skipped")
	}

	deps := &transporthttp.Deps{
		Store:       store,
		EmailSender: sender,
		Log:         log,
	}

	if cfg.SNSTopicARN != "" {
		pub, err := sns.NewPublisher(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("SNS publisher not available")
		} else {
			deps.Publisher = pub
		}
	}
	return deps, nil
}
