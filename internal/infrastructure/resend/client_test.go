package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-video-drop/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_Success(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"em_123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "re_key", time.Second)
	id, err := c.Send(context.Background(), domain.EmailMessage{
		From:    "uploads@no-reply.example",
		To:      "editor@example.com",
		ReplyTo: "alice@example.com",
		Subject: "Video Upload Complete: clip.mp4",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "em_123", id)
	assert.Equal(t, "Bearer re_key", auth)
	assert.Equal(t, "editor@example.com", got["to"])
	assert.Equal(t, "alice@example.com", got["reply_to"])
	assert.Equal(t, "Video Upload Complete: clip.mp4", got["subject"])
}

func TestSend_OmitsEmptyReplyTo(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":"em_1"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", time.Second).Send(context.Background(), domain.EmailMessage{To: "x@example.com"})
	require.NoError(t, err)
	_, present := got["reply_to"]
	assert.False(t, present)
}

func TestSend_Non2xxIsNotificationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k", time.Second).Send(context.Background(), domain.EmailMessage{To: "x@example.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotification)
	assert.ErrorContains(t, err, "422")
	assert.ErrorContains(t, err, "invalid from")
}

func TestSend_TransportErrorIsNotificationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "k", time.Second).Send(context.Background(), domain.EmailMessage{To: "x@example.com"})
	assert.ErrorIs(t, err, domain.ErrNotification)
}
