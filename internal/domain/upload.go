package domain

import "time"

// PresignedURL is a capability URL valid for a single HTTP method until ExpiresAt.
type PresignedURL struct {
	URL       string
	Method    string
	ExpiresAt time.Time
}

// UploadURLRequest is the body of the request-upload-url step.
type UploadURLRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
}

// UploadTicket is returned by the request-upload-url step.
type UploadTicket struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
	ExpiresIn int64  `json:"expiresIn"`
}

// NotifyRequest is the body of the notify step. FileSize is a pointer so that
// a missing value can be told apart from an empty file.
type NotifyRequest struct {
	Key          string `json:"key" validate:"required"`
	OriginalName string `json:"originalName" validate:"required"`
	FileSize     *int64 `json:"fileSize" validate:"required,min=0"`
	SenderName   string `json:"senderName,omitempty"`
	SenderEmail  string `json:"senderEmail,omitempty"`
}

// NotifyResult is returned by the notify step. Notification is a diagnostic
// for logs and tests and is never serialized: email delivery does not change
// the outcome of the request.
type NotifyResult struct {
	Message      string             `json:"message"`
	FileName     string             `json:"fileName"`
	OriginalName string             `json:"originalName"`
	FileSize     int64              `json:"fileSize"`
	ViewableURL  string             `json:"viewableUrl"`
	SenderName   *string            `json:"senderName"`
	SenderEmail  *string            `json:"senderEmail"`
	Notification NotificationRecord `json:"-"`
}

// ViewURLRequest asks for a presigned GET URL for an already uploaded key.
// ExpiresIn is in seconds; zero means the configured default.
type ViewURLRequest struct {
	FileName  string `json:"fileName" validate:"required"`
	ExpiresIn int64  `json:"expiresIn,omitempty" validate:"gte=0"`
}

type ViewURL struct {
	PresignedURL string `json:"presignedUrl"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// UploadEvent is published to the optional event topic once notify succeeds.
type UploadEvent struct {
	Type         string    `json:"type"`
	Key          string    `json:"key"`
	OriginalName string    `json:"originalName"`
	FileSize     int64     `json:"fileSize"`
	ViewableURL  string    `json:"viewableUrl"`
	SenderName   string    `json:"senderName,omitempty"`
	SenderEmail  string    `json:"senderEmail,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

const EventUploadCompleted = "upload.completed"
