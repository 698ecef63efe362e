// Package resend sends transactional email through the Resend HTTP API.
package resend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-video-drop/internal/domain"
)

const DefaultBaseURL = "https://api.resend.com"

type Client struct {
	http *resty.Client
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	ReplyTo string `json:"reply_to,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// NewClient returns a Resend client. An empty baseURL selects the public API.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cli := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &Client{http: cli}
}

// Send posts msg to /emails and returns the provider message id.
// Any non-2xx answer is an error wrapping domain.ErrNotification.
func (c *Client) Send(ctx context.Context, msg domain.EmailMessage) (string, error) {
	var out sendResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendRequest{
			From:    msg.From,
			To:      msg.To,
			Subject: msg.Subject,
			HTML:    msg.HTML,
			ReplyTo: msg.ReplyTo,
		}).
		SetResult(&out).
		Post("/emails")
	if err != nil {
		return "", fmt.Errorf("resend request: %w: %w", domain.ErrNotification, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("resend status %d: %s: %w", resp.StatusCode(), strings.TrimSpace(resp.String()), domain.ErrNotification)
	}
	return out.ID, nil
}
