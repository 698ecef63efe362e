// Package client drives the three-step upload handshake against the video
// drop API: request a presigned URL, PUT the bytes to storage, then notify.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-video-drop/internal/domain"
)

var (
	ErrUploadURL    = errors.New("upload url request failed")
	ErrInvalidState = errors.New("invalid upload state transition")
)

// NotificationWarning is set on Result when the file is stored but the
// notify step failed.
const NotificationWarning = "Upload succeeded but notification failed"

const maxErrorBody = 4 << 10

type Config struct {
	BaseURL string
	// Timeout bounds each API call. The storage PUT is bounded only by
	// TransferTimeout, which defaults to none.
	Timeout         time.Duration
	TransferTimeout time.Duration
}

// File is one local file ready to upload. Body must yield exactly Size bytes.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Input is one upload attempt.
type Input struct {
	File        File
	SenderName  string
	SenderEmail string
}

// Progress is reported on every state change and while bytes are sent.
type Progress struct {
	State domain.UploadState
	Sent  int64
	Total int64
}

// Percent returns the transfer progress in [0, 100].
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		if p.State == domain.StateNotifying || p.State == domain.StateDone {
			return 100
		}
		return 0
	}
	return float64(p.Sent) * 100 / float64(p.Total)
}

type ProgressFunc func(Progress)

// Result is the outcome of a completed attempt. Warning is set when the
// upload succeeded but the notify step did not.
type Result struct {
	Key         string
	ViewableURL string
	Notify      *domain.NotifyResult
	Warning     string
}

type Client struct {
	api      *resty.Client
	transfer *resty.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:3000"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	api := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json")
	transfer := resty.New()
	if cfg.TransferTimeout > 0 {
		transfer.SetTimeout(cfg.TransferTimeout)
	}
	return &Client{api: api, transfer: transfer}
}

// OpenFile opens path and fills File from its metadata and sniffed content
// type. The caller closes the returned file.
func OpenFile(path string) (File, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return File{}, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	ct, err := DetectContentType(path)
	if err != nil {
		_ = f.Close()
		return File{}, nil, err
	}
	return File{Name: filepath.Base(path), ContentType: ct, Size: info.Size(), Body: f}, f, nil
}

// Upload runs one attempt. Failures in the first two steps return an error
// and leave nothing to resume; a failed notify is reported as Result.Warning.
func (c *Client) Upload(ctx context.Context, in Input, onProgress ProgressFunc) (*Result, error) {
	t := &tracker{onProgress: onProgress, total: in.File.Size}

	if err := t.advance(domain.StateKeyRequested); err != nil {
		return nil, err
	}
	ticket, err := c.requestUploadURL(ctx, in.File)
	if err != nil {
		t.fail()
		return nil, err
	}

	if err := t.advance(domain.StateUploading); err != nil {
		return nil, err
	}
	if err := c.put(ctx, ticket.UploadURL, in.File, t.sent); err != nil {
		t.fail()
		return nil, err
	}

	if err := t.advance(domain.StateNotifying); err != nil {
		return nil, err
	}
	res := &Result{Key: ticket.Key}
	notified, err := c.notify(ctx, ticket.Key, in)
	if err != nil {
		res.Warning = NotificationWarning
	} else {
		res.Notify = notified
		res.ViewableURL = notified.ViewableURL
	}

	if err := t.advance(domain.StateDone); err != nil {
		return nil, err
	}
	return res, nil
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) requestUploadURL(ctx context.Context, f File) (*domain.UploadTicket, error) {
	var ticket domain.UploadTicket
	var apiErr apiError
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(domain.UploadURLRequest{FileName: f.Name, ContentType: f.ContentType}).
		SetResult(&ticket).
		SetError(&apiErr).
		Post("/api/presigned-upload")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadURL, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status()
		}
		return nil, fmt.Errorf("%w: %s", ErrUploadURL, msg)
	}
	if ticket.UploadURL == "" || ticket.Key == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUploadURL)
	}
	return &ticket, nil
}

// put streams the file straight to storage with an explicit Content-Length
// so the body is never buffered or sent chunked.
func (c *Client) put(ctx context.Context, url string, f File, onSent func(int64)) error {
	var body io.Reader = http.NoBody
	if f.Size > 0 {
		body = &countingReader{r: io.LimitReader(f.Body, f.Size), onRead: onSent}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("build storage request: %w", err)
	}
	req.ContentLength = f.Size
	req.Header.Set("Content-Type", f.ContentType)

	resp, err := c.transfer.GetClient().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransfer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.TransferError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) notify(ctx context.Context, key string, in Input) (*domain.NotifyResult, error) {
	size := in.File.Size
	var out domain.NotifyResult
	resp, err := c.api.R().
		SetContext(ctx).
		SetBody(domain.NotifyRequest{
			Key:          key,
			OriginalName: in.File.Name,
			FileSize:     &size,
			SenderName:   in.SenderName,
			SenderEmail:  in.SenderEmail,
		}).
		SetResult(&out).
		Post("/api/notify")
	if err != nil {
		return nil, fmt.Errorf("notify: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("notify: %s", resp.Status())
	}
	return &out, nil
}

// tracker enforces the attempt's state machine and fans progress out.
type tracker struct {
	state      domain.UploadState
	total      int64
	onProgress ProgressFunc
}

func (t *tracker) advance(next domain.UploadState) error {
	if !t.state.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidState, t.state, next)
	}
	t.state = next
	sent := int64(0)
	if next == domain.StateNotifying || next == domain.StateDone {
		sent = t.total
	}
	t.emit(sent)
	return nil
}

func (t *tracker) fail() {
	if t.state.CanTransition(domain.StateFailed) {
		t.state = domain.StateFailed
		t.emit(0)
	}
}

func (t *tracker) sent(n int64) { t.emit(n) }

func (t *tracker) emit(sent int64) {
	if t.onProgress != nil {
		t.onProgress(Progress{State: t.state, Sent: sent, Total: t.total})
	}
}

// countingReader reports the running byte count after every Read.
type countingReader struct {
	r      io.Reader
	n      int64
	onRead func(int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.n += int64(n)
		c.onRead(c.n)
	}
	return n, err
}
