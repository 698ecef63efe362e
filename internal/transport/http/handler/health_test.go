package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockProbe struct{ mock.Mock }

func (m *mockProbe) Enabled() bool { return m.Called().Bool(0) }

func (m *mockProbe) Health(ctx context.Context) error { return m.Called(ctx).Error(0) }

func serveHealth(h *HealthHandler, action string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/health-check/{action}", h.Check)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health-check/"+action, nil))
	return rec
}

func TestHealth_Ping(t *testing.T) {
	rec := serveHealth(NewHealthHandler(nil), "ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"pong"}`, rec.Body.String())
}

func TestHealth_UnknownAction(t *testing.T) {
	rec := serveHealth(NewHealthHandler(nil), "dance")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth_ReadyStorageDisabled(t *testing.T) {
	p := new(mockProbe)
	p.On("Enabled").Return(false)

	rec := serveHealth(NewHealthHandler(p), "ready")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"disabled"}`, rec.Body.String())
	p.AssertNotCalled(t, "Health", mock.Anything)
}

func TestHealth_ReadyStorageDown(t *testing.T) {
	p := new(mockProbe)
	p.On("Enabled").Return(true)
	p.On("Health", mock.Anything).Return(errors.New("403 forbidden"))

	rec := serveHealth(NewHealthHandler(p), "ready")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "forbidden")
}

func TestHealth_ReadyOK(t *testing.T) {
	p := new(mockProbe)
	p.On("Enabled").Return(true)
	p.On("Health", mock.Anything).Return(nil)

	rec := serveHealth(NewHealthHandler(p), "ready")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"ok"}`, rec.Body.String())
}
