package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/go-video-drop/internal/application/notification"
	"github.com/go-video-drop/internal/config"
	"github.com/go-video-drop/internal/domain"
	"github.com/go-video-drop/internal/logger"
	"github.com/go-video-drop/internal/pkg/validate"
)

// Presigner issues presigned URLs against object storage.
type Presigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (domain.PresignedURL, error)
	PresignView(ctx context.Context, key string, ttl time.Duration) (domain.PresignedURL, error)
}

type Service interface {
	RequestUploadURL(ctx context.Context, req domain.UploadURLRequest) (*domain.UploadTicket, error)
	Notify(ctx context.Context, req domain.NotifyRequest) (*domain.NotifyResult, error)
	PresignView(ctx context.Context, req domain.ViewURLRequest) (*domain.ViewURL, error)
}

type ServiceDeps struct {
	Presigner     Presigner
	Notifications notification.Service
	UploadTTL     time.Duration
	ViewTTL       time.Duration
	Log           *logger.Logger
}

type service struct {
	store     Presigner
	notifier  notification.Service
	uploadTTL time.Duration
	viewTTL   time.Duration
	log       *logger.Logger
	now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		store:     deps.Presigner,
		notifier:  deps.Notifications,
		uploadTTL: deps.UploadTTL,
		viewTTL:   deps.ViewTTL,
		log:       log.Component("upload"),
		now:       time.Now,
	}
}

func (s *service) RequestUploadURL(ctx context.Context, req domain.UploadURLRequest) (*domain.UploadTicket, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	key := GenerateKey(req.FileName, s.now())
	signed, err := s.store.PresignUpload(ctx, key, req.ContentType, s.uploadTTL)
	if err != nil {
		return nil, err
	}
	s.logFor(ctx).Info().Str("key", key).Str("content_type", req.ContentType).Msg("upload url issued")
	return &domain.UploadTicket{
		Key:       key,
		UploadURL: signed.URL,
		ExpiresIn: int64(s.uploadTTL / time.Second),
	}, nil
}

// Notify signs a view URL for an uploaded key and sends the best-effort
// email. Only validation and signing errors fail the call.
func (s *service) Notify(ctx context.Context, req domain.NotifyRequest) (*domain.NotifyResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if !validKey(req.Key) {
		return nil, fmt.Errorf("key is invalid: %w", domain.ErrValidation)
	}
	signed, err := s.store.PresignView(ctx, req.Key, s.viewTTL)
	if err != nil {
		return nil, err
	}

	rec := s.notifier.SendUploadNotification(ctx, notification.Notice{
		Key:           req.Key,
		FileName:      req.OriginalName,
		FileSizeBytes: *req.FileSize,
		ViewableURL:   signed.URL,
		SenderName:    req.SenderName,
		SenderEmail:   req.SenderEmail,
	})
	s.logFor(ctx).Info().
		Str("key", req.Key).
		Int64("file_size", *req.FileSize).
		Str("notification", string(rec.Status)).
		Msg("upload notified")

	return &domain.NotifyResult{
		Message:      "File uploaded successfully",
		FileName:     req.Key,
		OriginalName: req.OriginalName,
		FileSize:     *req.FileSize,
		ViewableURL:  signed.URL,
		SenderName:   optional(req.SenderName),
		SenderEmail:  optional(req.SenderEmail),
		Notification: rec,
	}, nil
}

// PresignView issues a GET URL for an existing key. ExpiresIn of zero uses
// the configured view lifetime.
func (s *service) PresignView(ctx context.Context, req domain.ViewURLRequest) (*domain.ViewURL, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if !validKey(req.FileName) {
		return nil, fmt.Errorf("fileName is invalid: %w", domain.ErrValidation)
	}
	maxSeconds := int64(config.MaxViewURLTTL / time.Second)
	if req.ExpiresIn > maxSeconds {
		return nil, fmt.Errorf("expiresIn must be at most %d: %w", maxSeconds, domain.ErrValidation)
	}
	ttl := s.viewTTL
	if req.ExpiresIn > 0 {
		ttl = time.Duration(req.ExpiresIn) * time.Second
	}
	signed, err := s.store.PresignView(ctx, req.FileName, ttl)
	if err != nil {
		return nil, err
	}
	return &domain.ViewURL{PresignedURL: signed.URL, ExpiresIn: int64(ttl / time.Second)}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// logFor returns the request-scoped logger when one is attached.
func (s *service) logFor(ctx context.Context) *logger.Logger {
	if l, ok := logger.Lookup(ctx); ok {
		return l.Component("upload")
	}
	return s.log
}
