package domain

type NotificationStatus string

const (
	NotificationSent    NotificationStatus = "sent"
	NotificationSkipped NotificationStatus = "skipped"
	NotificationFailed  NotificationStatus = "failed"
)

// NotificationRecord is the outcome of one notification attempt. It is logged,
// never persisted.
type NotificationRecord struct {
	Status NotificationStatus
	ID     string
	Reason string
	Err    error
}

func (r NotificationRecord) Delivered() bool { return r.Status == NotificationSent }

// EmailMessage is a single outbound HTML email.
type EmailMessage struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}
