package smtp

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-video-drop/internal/config"
	"github.com/go-video-drop/internal/domain"
	"github.com/go-video-drop/internal/pkg/id"
)

// Mailer sends HTML emails over SMTP.
type Mailer interface {
	Send(ctx context.Context, msg domain.EmailMessage) (string, error)
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type mailer struct {
	host     string
	port     string
	username string
	password string
	sendMail sendMailFunc
}

func NewMailer(cfg config.Email) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		sendMail: smtp.SendMail,
	}
}

// Send delivers msg and returns the generated Message-ID. net/smtp has no
// context support; ctx is only checked before dialing.
func (m *mailer) Send(ctx context.Context, msg domain.EmailMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("smtp send: %w: %w", domain.ErrNotification, err)
	}
	messageID := fmt.Sprintf("<%s@%s>", strings.ToLower(id.New()), m.host)
	raw := buildMessage(msg, messageID, time.Now())

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := m.sendMail(addr, auth, msg.From, []string{msg.To}, raw); err != nil {
		return "", fmt.Errorf("smtp send: %w: %w", domain.ErrNotification, err)
	}
	return messageID, nil
}

func buildMessage(msg domain.EmailMessage, messageID string, now time.Time) []byte {
	var b strings.Builder
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }
	header("From", msg.From)
	header("To", msg.To)
	if msg.ReplyTo != "" {
		header("Reply-To", msg.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", messageID)
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="UTF-8"`)
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
