package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	uploadapp "github.com/go-video-drop/internal/application/upload"
	"github.com/go-video-drop/internal/domain"
	"github.com/go-video-drop/internal/logger"
)

const maxBodyBytes = 1 << 20

// UploadHandler serves the presign and notify steps of the upload handshake.
type UploadHandler struct {
	svc uploadapp.Service
}

func NewUploadHandler(svc uploadapp.Service) *UploadHandler { return &UploadHandler{svc: svc} }

func (h *UploadHandler) PresignedUpload(w http.ResponseWriter, r *http.Request) {
	var req domain.UploadURLRequest
	if !decode(w, r, &req) {
		return
	}
	ticket, err := h.svc.RequestUploadURL(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate upload URL")
		return
	}
	writeJSON(w, r, http.StatusOK, ticket)
}

func (h *UploadHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var req domain.NotifyRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Notify(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to process upload notification")
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *UploadHandler) PresignedURL(w http.ResponseWriter, r *http.Request) {
	var req domain.ViewURLRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.PresignView(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate presigned URL")
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// LegacyUpload answers the old multipart endpoint. File bytes are never
// accepted by this server.
func (h *UploadHandler) LegacyUpload(w http.ResponseWriter, r *http.Request) {
	err := fmt.Errorf("direct uploads are not supported; use /api/presigned-upload: %w", domain.ErrMethodNotAllowed)
	writeServiceError(w, r, err, "")
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("failed to decode request")
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps service errors to responses. Validation and
// method messages are returned verbatim; anything else gets the generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, generic string) {
	log := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, domain.ErrValidation):
		log.Warn().Err(err).Msg("request rejected")
		writeError(w, r, http.StatusBadRequest, userMessage(err, domain.ErrValidation))
	case errors.Is(err, domain.ErrMethodNotAllowed):
		writeError(w, r, http.StatusMethodNotAllowed, userMessage(err, domain.ErrMethodNotAllowed))
	default:
		log.Error().Err(err).Bool("storage", domain.IsStorage(err)).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, generic)
	}
}

// userMessage strips the sentinel suffix added by %w wrapping.
func userMessage(err, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}
