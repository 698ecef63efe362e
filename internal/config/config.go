package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// MaxViewURLTTL is the longest lifetime S3 accepts for a SigV4 presigned URL.
const MaxViewURLTTL = 7 * 24 * time.Hour

// Email transports understood by the notification service.
const (
	EmailProviderResend = "resend"
	EmailProviderSMTP   = "smtp"
)

var (
	ErrInvalidUploadTTL     = errors.New("UPLOAD_URL_TTL must be positive and at most 168h")
	ErrInvalidViewTTL       = errors.New("VIEW_URL_TTL must be positive and at most 168h")
	ErrInvalidEmailProvider = errors.New("EMAIL_PROVIDER must be one of: resend, smtp")
	ErrInvalidEmailTimeout  = errors.New("EMAIL_TIMEOUT must be positive and shorter than HTTP_WRITE_TIMEOUT")
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string `env:"APP_PORT" envDefault:"3000"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack/MinIO URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`
	S3BucketName   string `env:"S3_BUCKET_NAME"`

	UploadURLTTL time.Duration `env:"UPLOAD_URL_TTL" envDefault:"1h"`
	ViewURLTTL   time.Duration `env:"VIEW_URL_TTL" envDefault:"1h"`

	Email Email

	SNSTopicARN string `env:"SNS_TOPIC_ARN"`

	AllowedOrigins     []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	StorageCORSOrigins []string `env:"STORAGE_CORS_ORIGINS" envDefault:"http://localhost:3000,http://127.0.0.1:3000" envSeparator:","`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	// Only enable behind a proxy that overwrites X-Forwarded-For and X-Real-Ip.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	HTTP HTTP
}

// Email groups the notification transport settings. Either transport may be
// left unconfigured; notifications are then skipped with a warning.
type Email struct {
	Provider      string `env:"EMAIL_PROVIDER" envDefault:"resend"`
	To            string `env:"EMAIL_TO"`
	From          string `env:"EMAIL_FROM" envDefault:"uploads@no-reply.example"`
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	ResendBaseURL string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`

	// Timeout bounds one delivery attempt; must be shorter than HTTP_WRITE_TIMEOUT.
	Timeout time.Duration `env:"EMAIL_TIMEOUT" envDefault:"5s"`
}

// HTTP holds server timeouts.
type HTTP struct {
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads all configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StorageConfigured reports whether the bucket and static credentials are all set.
func (c *Config) StorageConfigured() bool {
	return c.S3BucketName != "" && c.AWSAccessKeyID != "" && c.AWSSecretKey != ""
}

// Validate checks bounds that env parsing alone cannot express.
func (c *Config) Validate() error {
	if c.UploadURLTTL <= 0 || c.UploadURLTTL > MaxViewURLTTL {
		return ErrInvalidUploadTTL
	}
	if c.ViewURLTTL <= 0 || c.ViewURLTTL > MaxViewURLTTL {
		return ErrInvalidViewTTL
	}
	switch c.Email.Provider {
	case EmailProviderResend, EmailProviderSMTP:
	default:
		return ErrInvalidEmailProvider
	}
	if c.Email.Timeout <= 0 || (c.HTTP.WriteTimeout > 0 && c.Email.Timeout >= c.HTTP.WriteTimeout) {
		return ErrInvalidEmailTimeout
	}
	return nil
}

func (c *Config) normalize() {
	c.S3BucketName = strings.TrimSpace(c.S3BucketName)
	c.AWSAccessKeyID = strings.TrimSpace(c.AWSAccessKeyID)
	c.AWSSecretKey = strings.TrimSpace(c.AWSSecretKey)
	c.AWSEndpointURL = strings.TrimSpace(c.AWSEndpointURL)
	c.Email.Provider = strings.ToLower(strings.TrimSpace(c.Email.Provider))
	c.Email.To = strings.TrimSpace(c.Email.To)
	c.Email.ResendAPIKey = strings.TrimSpace(c.Email.ResendAPIKey)
	c.AllowedOrigins = trimAll(c.AllowedOrigins)
	c.StorageCORSOrigins = trimAll(c.StorageCORSOrigins)
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
