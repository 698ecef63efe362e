package http

import (
	"context"
	"time"

	"github.com/go-video-drop/internal/application/notification"
	"github.com/go-video-drop/internal/domain"
	"github.com/go-video-drop/internal/logger"
)

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (domain.PresignedURL, error)
	PresignView(ctx context.Context, key string, ttl time.Duration) (domain.PresignedURL, error)
	Enabled() bool
	Health(ctx context.Context) error
}

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Store       ObjectStore
	EmailSender notification.EmailSender    // nil disables email
	Publisher   notification.EventPublisher // nil disables upload events
	Log         *logger.Logger
}
