// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/domain"
)

// EventHandler consumes one inbound chat event and replies through out.
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event, out domain.Replier) error
}

type Handlers struct {
	Dialog  EventHandler
	Limiter *SessionLimiter // nil disables inbound limiting
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// updateRequest is one user message. Command defaults to whether the text
// starts with a slash.
type updateRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
	Command   *bool  `json:"command,omitempty"`
}

type updateResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []domain.Message `json:"messages"`
}

const maxUpdateBytes = 64 << 10

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/updates", h.postUpdate)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// collector buffers replies for the synchronous webhook response.
type collector struct{ msgs []domain.Message }

func (c *collector) Send(_ context.Context, m domain.Message) error {
	c.msgs = append(c.msgs, m)
	return nil
}

func (h *Handlers) postUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUpdateBytes))
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "session_id is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "text is required")
		return
	}
	if h.Limiter != nil && !h.Limiter.Allow(req.SessionID) {
		w.Header().Set("Retry-After", "1")
		writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "slow down")
		return
	}

	isCmd := strings.HasPrefix(strings.TrimSpace(req.Text), "/")
	if req.Command != nil {
		isCmd = *req.Command
	}
	ev := domain.Event{SessionID: req.SessionID, Text: req.Text, IsCommand: isCmd}

	out := &collector{}
	if err := h.Dialog.Handle(r.Context(), ev, out); err != nil {
		log.Error().Err(err).Str("session", req.SessionID).Msg("handle update failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "update not processed")
		return
	}
	if out.msgs == nil {
		out.msgs = []domain.Message{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(updateResponse{SessionID: req.SessionID, Messages: out.msgs}); err != nil {
		log.Error().Err(err).Msg("write update response failed")
	}
}
