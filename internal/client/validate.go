package client

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedFile = errors.New("Only MP4, AVI, and MOV video files are allowed.")
	ErrInvalidEmail    = errors.New("Please enter a valid email address.")
)

var allowedVideoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/avi":       {},
	"video/x-msvideo": {},
	"video/quicktime": {},
}

var videoTypesByExt = map[string]string{
	".mp4": "video/mp4",
	".avi": "video/x-msvideo",
	".mov": "video/quicktime",
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateVideoFile accepts a file when either its content type or its
// extension names a supported video container. The server does not repeat
// this check.
func ValidateVideoFile(name, contentType string) error {
	if _, ok := allowedVideoTypes[strings.ToLower(contentType)]; ok {
		return nil
	}
	if _, ok := videoTypesByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return nil
	}
	return ErrUnsupportedFile
}

// ValidateSenderEmail checks the optional sender email. Empty is valid.
func ValidateSenderEmail(email string) error {
	if email == "" || emailPattern.MatchString(email) {
		return nil
	}
	return ErrInvalidEmail
}

// DetectContentType sniffs the file content and falls back to the file
// extension when the content is not recognised.
func DetectContentType(path string) (string, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	if ct := mt.String(); !mt.Is("application/octet-stream") {
		return stripParams(ct), nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := videoTypesByExt[ext]; ok {
		return ct, nil
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return stripParams(ct), nil
	}
	return "application/octet-stream", nil
}

func stripParams(ct string) string {
	if media, _, err := mime.ParseMediaType(ct); err == nil {
		return media
	}
	return ct
}

// FormatFileSize renders a byte count with two-decimal precision in the
// largest unit up to GB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", size), "0"), ".")
	return s + " " + units[i]
}
