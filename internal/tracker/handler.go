package tracker

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"media-tracker/internal/platform/metrics"
)

// Handler exposes tracker HTTP endpoints using go-chi.
type Handler struct {
	svc     *Service
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler that uses the given Service, Logger, and optional Metrics.
// Metrics may be nil to disable metric recording (e.g. in tests).
func NewHandler(svc *Service, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// Routes registers the session endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{key}", func(r chi.Router) {
		r.Delete("/", h.DeleteSession)
		r.Post("/actions/{action}", h.DoAction)
		r.Post("/page-events", h.PostPageEvent)
		r.Get("/events", h.ListEvents)
		r.Get("/attributes", h.GetAttributes)
	})
}

// CreateSession handles POST /sessions.
// Body: { "content_id": "023134", "title": "Immigrant Song", "duration": 120000,
// "content_type": "Video", "stream_type": "OnDemand" }.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid session body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	key, err := h.svc.Create(req)
	if err != nil {
		h.writeServiceError(w, "", "create", err)
		return
	}

	h.log.Info("session created",
		slog.String("key", string(key)),
		slog.String("content_id", req.ContentID),
		slog.String("stream_type", string(req.StreamType)))
	if h.metrics != nil {
		h.metrics.IncSessionsCreated()
	}
	writeJSON(w, http.StatusCreated, CreateSessionResponse{Key: key})
}

// DoAction handles POST /sessions/{key}/actions/{action}. An empty body is
// accepted for actions that need no input.
func (h *Handler) DoAction(w http.ResponseWriter, r *http.Request) {
	key := Key(chi.URLParam(r, "key"))
	action := chi.URLParam(r, "action")

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.log.Debug("invalid action body", slog.String("action", action), slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.Do(key, action, req); err != nil {
		h.writeServiceError(w, key, action, err)
		return
	}

	h.log.Debug("action applied", slog.String("key", string(key)), slog.String("action", action))
	w.WriteHeader(http.StatusNoContent)
}

// PostPageEvent handles POST /sessions/{key}/page-events.
// Body: { "name": "Chapter Shared", "attributes": { "network": "mail" } }.
func (h *Handler) PostPageEvent(w http.ResponseWriter, r *http.Request) {
	key := Key(chi.URLParam(r, "key"))

	var req PageEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid page event body", slog.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.PageEvent(key, req); err != nil {
		h.writeServiceError(w, key, "page-event", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ListEvents handles GET /sessions/{key}/events.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	key := Key(chi.URLParam(r, "key"))
	events, err := h.svc.Events(key)
	if err != nil {
		h.writeServiceError(w, key, "events", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetAttributes handles GET /sessions/{key}/attributes.
func (h *Handler) GetAttributes(w http.ResponseWriter, r *http.Request) {
	key := Key(chi.URLParam(r, "key"))
	attrs, err := h.svc.Attributes(key)
	if err != nil {
		h.writeServiceError(w, key, "attributes", err)
		return
	}
	writeJSON(w, http.StatusOK, attrs)
}

// DeleteSession handles DELETE /sessions/{key}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	key := Key(chi.URLParam(r, "key"))
	if err := h.svc.Delete(key); err != nil {
		h.writeServiceError(w, key, "delete", err)
		return
	}
	h.log.Info("session deleted", slog.String("key", string(key)))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, key Key, op string, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnknownAction), errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDelivery):
		h.log.Warn("event delivery failed",
			slog.String("key", string(key)),
			slog.String("op", op),
			slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.log.Error("request failed",
			slog.String("key", string(key)),
			slog.String("op", op),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
