package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var emailTemplate = template.Must(template.New("upload").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Video Upload Successful</h2>
  <p>Your video has been successfully uploaded to S3.</p>
  {{- if .Sender}}
  <p><strong>Sender:</strong> {{.Sender}}</p>
  {{- end}}
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <h3 style="margin-top: 0;">File Details:</h3>
    <p><strong>File Name:</strong> {{.FileName}}</p>
    <p><strong>File Size:</strong> {{.FileSize}}</p>
    <p><strong>Upload Time:</strong> {{.UploadTime}}</p>
  </div>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.ViewableURL}}" style="background-color: #007bff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; display: inline-block;">View Video</a>
  </div>
  <p style="color: #666; font-size: 14px;">Note: The viewable link will expire in {{.LinkLifetime}} for security purposes.</p>
</div>
`))

type emailView struct {
	Sender       string
	FileName     string
	FileSize     string
	UploadTime   string
	ViewableURL  string
	LinkLifetime string
}

func renderEmail(n Notice, now time.Time, linkTTL time.Duration) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, emailView{
		Sender:       senderLine(n.SenderName, n.SenderEmail),
		FileName:     n.FileName,
		FileSize:     fmt.Sprintf("%.2f MB", float64(n.FileSizeBytes)/1024/1024),
		UploadTime:   now.UTC().Format("2006-01-02 15:04:05 MST"),
		ViewableURL:  n.ViewableURL,
		LinkLifetime: describeTTL(linkTTL),
	})
	if err != nil {
		return "", fmt.Errorf("render upload email: %w", err)
	}
	return buf.String(), nil
}

func senderLine(name, email string) string {
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email)
	case name != "":
		return name
	default:
		return email
	}
}

// describeTTL renders a link lifetime in the largest whole unit.
func describeTTL(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return plural(int64(d/(24*time.Hour)), "day")
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int64(d/time.Minute), "minute")
	default:
		return plural(int64(d/time.Second), "second")
	}
}
