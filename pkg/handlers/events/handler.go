package events

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// payload is the envelope Slack's Events API posts. Only the verification
// handshake is acted on; everything else is acknowledged immediately so
// Slack does not retry.
type payload struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Event     struct {
		Type string `json:"type"`
	} `json:"event"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var body payload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn().Err(err).Msg("unreadable event payload")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		return
	}

	if body.Type == "url_verification" {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"challenge": body.Challenge})
		return
	}

	if body.Type == "event_callback" {
		logger.Info().Str("event", body.Event.Type).Msg("slack event received")
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
