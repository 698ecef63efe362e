package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-video-drop/internal/logger"
)

// StorageProbe is the part of the object store the readiness check needs.
type StorageProbe interface {
	Enabled() bool
	Health(ctx context.Context) error
}

// HealthHandler handles health-check endpoints.
type HealthHandler struct {
	storage StorageProbe
}

func NewHealthHandler(storage StorageProbe) *HealthHandler { return &HealthHandler{storage: storage} }

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, r, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "ready":
		h.ready(w, r)
	default:
		writeError(w, r, http.StatusBadRequest, "unknown action")
	}
}

// ready reports 503 only when storage is configured but unreachable. An
// unconfigured store is reported as "disabled" so the process still serves
// its health endpoints in local development.
func (h *HealthHandler) ready(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil || !h.storage.Enabled() {
		writeJSON(w, r, http.StatusOK, ReadyEnvelope{Status: "ok", Storage: "disabled"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if err := h.storage.Health(ctx); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("storage not ready")
		writeJSON(w, r, http.StatusServiceUnavailable, ReadyEnvelope{Status: "unavailable", Storage: "error", Error: "storage unreachable"})
		return
	}
	writeJSON(w, r, http.StatusOK, ReadyEnvelope{Status: "ok", Storage: "ok"})
}
