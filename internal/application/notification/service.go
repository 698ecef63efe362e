package notification

import (
	"context"
	"time"

	"github.com/go-video-drop/internal/config"
	"github.com/go-video-drop/internal/domain"
	"github.com/go-video-drop/internal/infrastructure/metrics"
	"github.com/go-video-drop/internal/infrastructure/resend"
	"github.com/go-video-drop/internal/infrastructure/smtp"
	"github.com/go-video-drop/internal/logger"
)

// EmailSender delivers one email and returns the provider's message id.
type EmailSender interface {
	Send(ctx context.Context, msg domain.EmailMessage) (string, error)
}

// EventPublisher is the optional upload event fan-out.
type EventPublisher interface {
	PublishUploadEvent(ctx context.Context, event domain.UploadEvent) error
}

// Notice carries what the upload email needs.
type Notice struct {
	Key           string
	FileName      string
	FileSizeBytes int64
	ViewableURL   string
	SenderName    string
	SenderEmail   string
}

// Service sends upload notifications. It never returns an error: the outcome
// is reported through the returned record.
type Service interface {
	SendUploadNotification(ctx context.Context, n Notice) domain.NotificationRecord
}

type ServiceDeps struct {
	Sender    EmailSender    // nil when no transport is configured
	Publisher EventPublisher // optional
	From      string
	To        string
	LinkTTL   time.Duration
	Timeout   time.Duration // per delivery attempt; zero leaves ctx untouched
	Log       *logger.Logger
}

type service struct {
	sender    EmailSender
	publisher EventPublisher
	from      string
	to        string
	linkTTL   time.Duration
	timeout   time.Duration
	log       *logger.Logger
	now       func() time.Time
}

func NewService(deps ServiceDeps) Service {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &service{
		sender:    deps.Sender,
		publisher: deps.Publisher,
		from:      deps.From,
		to:        deps.To,
		linkTTL:   deps.LinkTTL,
		timeout:   deps.Timeout,
		log:       log.Component("notification"),
		now:       time.Now,
	}
}

// NewSender builds the transport selected by cfg.Provider, or returns nil when
// that transport is missing its mandatory settings.
func NewSender(cfg config.Email) EmailSender {
	switch cfg.Provider {
	case config.EmailProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil
		}
		return smtp.NewMailer(cfg)
	default:
		if cfg.ResendAPIKey == "" {
			return nil
		}
		return resend.NewClient(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.Timeout)
	}
}

func (s *service) SendUploadNotification(ctx context.Context, n Notice) domain.NotificationRecord {
	rec := s.sendEmail(ctx, n)
	metrics.RecordNotification(string(rec.Status))
	s.publish(ctx, n)
	return rec
}

func (s *service) sendEmail(ctx context.Context, n Notice) domain.NotificationRecord {
	if s.sender == nil || s.to == "" {
		const reason = "email disabled: missing email transport settings or EMAIL_TO"
		s.logFor(ctx).Warn().Str("file_name", n.FileName).Msg(reason)
		return domain.NotificationRecord{Status: domain.NotificationSkipped, Reason: reason}
	}

	now := s.now()
	html, err := renderEmail(n, now, s.linkTTL)
	if err != nil {
		s.logFor(ctx).Error().Err(err).Str("file_name", n.FileName).Msg("upload email not sent")
		return domain.NotificationRecord{Status: domain.NotificationFailed, Reason: "render failed", Err: err}
	}

	sendCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	id, err := s.sender.Send(sendCtx, domain.EmailMessage{
		From:    s.from,
		To:      s.to,
		ReplyTo: n.SenderEmail,
		Subject: "Video Upload Complete: " + n.FileName,
		HTML:    html,
	})
	if err != nil {
		s.logFor(ctx).Error().Err(err).Str("file_name", n.FileName).Msg("upload email not sent")
		return domain.NotificationRecord{Status: domain.NotificationFailed, Reason: "transport error", Err: err}
	}

	s.logFor(ctx).Info().Str("file_name", n.FileName).Str("message_id", id).Msg("upload email sent")
	return domain.NotificationRecord{Status: domain.NotificationSent, ID: id}
}

func (s *service) publish(ctx context.Context, n Notice) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishUploadEvent(ctx, domain.UploadEvent{
		Type:         domain.EventUploadCompleted,
		Key:          n.Key,
		OriginalName: n.FileName,
		FileSize:     n.FileSizeBytes,
		ViewableURL:  n.ViewableURL,
		SenderName:   n.SenderName,
		SenderEmail:  n.SenderEmail,
		OccurredAt:   s.now().UTC(),
	})
	if err != nil {
		s.logFor(ctx).Warn().Err(err).Str("key", n.Key).Msg("upload event not published")
	}
}

// logFor returns the request-scoped logger when one is attached.
func (s *service) logFor(ctx context.Context) *logger.Logger {
	if l, ok := logger.Lookup(ctx); ok {
		return l.Component("notification")
	}
	return s.log
}
