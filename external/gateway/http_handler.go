package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Carbonhell/SmartDisplay/internal/interaction"
	"github.com/Carbonhell/SmartDisplay/internal/metrics"
	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

type InteractionHandler interface {
	Handle(ctx context.Context, body []byte) (*discordgo.InteractionResponse, error)
}

type Server struct {
	verifier     *Verifier
	interactions InteractionHandler
}

func NewServer(verifier *Verifier, interactions InteractionHandler) *Server {
	return &Server{verifier: verifier, interactions: interactions}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /interactions", s.handleInteraction)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := s.verifier.Verify(r); err != nil {
		slog.Warn("rejected interaction", "error", err, "remote_addr", r.RemoteAddr)
		metrics.Interactions.WithLabelValues("unverified", "unauthorized").Inc()
		writeJSON(w, http.StatusUnauthorized, map[string]string{})
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read request body"))
		return
	}

	resp, err := s.interactions.Handle(r.Context(), body)
	switch {
	case errors.Is(err, interaction.ErrMalformedPayload):
		slog.Warn("malformed interaction", "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case err != nil:
		slog.Error("interaction failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"message": message}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
