package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrValidation       = errors.New("validation failed")
	ErrStorageConfig    = errors.New("object storage is not configured")
	ErrStorageSign      = errors.New("presign failed")
	ErrNotification     = errors.New("notification failed")
	ErrTransfer         = errors.New("transfer failed")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// TransferError is returned when the direct-to-storage PUT answers with a non-2xx status.
type TransferError struct {
	StatusCode int
	Body       string
}

func (e *TransferError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("S3 upload failed: %d", e.StatusCode)
	}
	return fmt.Sprintf("S3 upload failed: %d %s", e.StatusCode, e.Body)
}

func (e *TransferError) Unwrap() error { return ErrTransfer }

// IsStorage reports whether err originates in the object storage gateway.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorageConfig) || errors.Is(err, ErrStorageSign)
}
