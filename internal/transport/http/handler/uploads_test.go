package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-video-drop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockUploadSvc struct{ mock.Mock }

func (m *mockUploadSvc) RequestUploadURL(ctx context.Context, req domain.UploadURLRequest) (*domain.UploadTicket, error) {
	args := m.Called(ctx, req)
	if t, _ := args.Get(0).(*domain.UploadTicket); t != nil {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUploadSvc) Notify(ctx context.Context, req domain.NotifyRequest) (*domain.NotifyResult, error) {
	args := m.Called(ctx, req)
	if res, _ := args.Get(0).(*domain.NotifyResult); res != nil {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUploadSvc) PresignView(ctx context.Context, req domain.ViewURLRequest) (*domain.ViewURL, error) {
	args := m.Called(ctx, req)
	if v, _ := args.Get(0).(*domain.ViewURL); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// --- PresignedUpload ---

func TestPresignedUpload_Success(t *testing.T) {
	svc := new(mockUploadSvc)
	svc.On("RequestUploadURL", mock.Anything, domain.UploadURLRequest{FileName: "demo.mp4", ContentType: "video/mp4"}).
		Return(&domain.UploadTicket{Key: "demo_1_abc.mp4", UploadURL: "https://s3.example/put", ExpiresIn: 3600}, nil)

	rec := postJSON(t, NewUploadHandler(svc).PresignedUpload, "/api/presigned-upload",
		map[string]string{"fileName": "demo.mp4", "contentType": "video/mp4"})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "demo_1_abc.mp4", body["key"])
	assert.Equal(t, "https://s3.example/put", body["uploadUrl"])
	assert.Equal(t, float64(3600), body["expiresIn"])
}

func TestPresignedUpload_ValidationError(t *testing.T) {
	svc := new(mockUploadSvc)
	svc.On("RequestUploadURL", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("contentType is required: %w", domain.ErrValidation))

	rec := postJSON(t, NewUploadHandler(svc).PresignedUpload, "/api/presigned-upload",
		map[string]string{"fileName": "demo.mp4"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "contentType is required", decodeBody(t, rec)["error"])
}

func TestPresignedUpload_StorageErrorIsGeneric(t *testing.T) {
	svc := new(mockUploadSvc)
	svc.On("RequestUploadURL", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("bucket or credentials are not set: %w", domain.ErrStorageConfig))

	rec := postJSON(t, NewUploadHandler(svc).PresignedUpload, "/api/presigned-upload",
		map[string]string{"fileName": "demo.mp4", "contentType": "video/mp4"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate upload URL", decodeBody(t, rec)["error"])
	assert.NotContains(t, rec.Body.String(), "credentials")
}

func TestPresignedUpload_InvalidJSON(t *testing.T) {
	svc := new(mockUploadSvc)
	rec := postJSON(t, NewUploadHandler(svc).PresignedUpload, "/api/presigned-upload", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeBody(t, rec)["error"])
	svc.AssertNotCalled(t, "RequestUploadURL", mock.Anything, mock.Anything)
}

// --- Notify ---

func TestNotify_Success(t *testing.T) {
	name := "Ann"
	svc := new(mockUploadSvc)
	svc.On("Notify", mock.Anything, mock.MatchedBy(func(req domain.NotifyRequest) bool {
		return req.Key == "demo_1_abc.mp4" && req.FileSize != nil && *req.FileSize == 5242880
	})).Return(&domain.NotifyResult{
		Message:      "File uploaded successfully",
		FileName:     "demo_1_abc.mp4",
		OriginalName: "demo.mp4",
		FileSize:     5242880,
		ViewableURL:  "https://s3.example/view",
		SenderName:   &name,
		Notification: domain.NotificationRecord{Status: domain.NotificationFailed, Err: errors.New("smtp down")},
	}, nil)

	rec := postJSON(t, NewUploadHandler(svc).Notify, "/api/notify", map[string]any{
		"key": "demo_1_abc.mp4", "originalName": "demo.mp4", "fileSize": 5242880, "senderName": "Ann",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "File uploaded successfully", body["message"])
	assert.Equal(t, "https://s3.example/view", body["viewableUrl"])
	assert.Equal(t, "Ann", body["senderName"])
	assert.Nil(t, body["senderEmail"])
	assert.NotContains(t, rec.Body.String(), "smtp down")
}

func TestNotify_ValidationError(t *testing.T) {
	svc := new(mockUploadSvc)
	svc.On("Notify", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("fileSize is required: %w", domain.ErrValidation))

	rec := postJSON(t, NewUploadHandler(svc).Notify, "/api/notify",
		map[string]any{"key": "k.mp4", "originalName": "demo.mp4"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "fileSize is required", decodeBody(t, rec)["error"])
}

func TestNotify_NonNumericFileSize(t *testing.T) {
	svc := new(mockUploadSvc)
	rec := postJSON(t, NewUploadHandler(svc).Notify, "/api/notify",
		`{"key":"k.mp4","originalName":"demo.mp4","fileSize":"big"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestNotify_SignErrorIsGeneric(t *testing.T) {
	svc := new(mockUploadSvc)
	svc.On("Notify", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: presign get object: expired token", domain.ErrStorageSign))

	rec := postJSON(t, NewUploadHandler(svc).Notify, "/api/notify",
		map[string]any{"key": "k.mp4", "originalName": "demo.mp4", "fileSize": 1})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to process upload notification", decodeBody(t, rec)["error"])
}

// --- PresignedURL / LegacyUpload ---

func TestPresignedURL_Success(t *testing.T) {
	svc := new(mockUploadSvc)
	svc.On("PresignView", mock.Anything, domain.ViewURLRequest{FileName: "demo.mp4", ExpiresIn: 60}).
		Return(&domain.ViewURL{PresignedURL: "https://s3.example/view", ExpiresIn: 60}, nil)

	rec := postJSON(t, NewUploadHandler(svc).PresignedURL, "/api/presigned-url",
		map[string]any{"fileName": "demo.mp4", "expiresIn": 60})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "https://s3.example/view", body["presignedUrl"])
	assert.Equal(t, float64(60), body["expiresIn"])
}

func TestLegacyUpload_MethodNotAllowed(t *testing.T) {
	rec := postJSON(t, NewUploadHandler(new(mockUploadSvc)).LegacyUpload, "/api/upload", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "/api/presigned-upload")
}
