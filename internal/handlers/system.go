package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const welcomeMessage = "Share photos of your favourite moments with friends, family and the world."

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Index handles GET /
func Index(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, MessageResponse{Message: welcomeMessage}, http.StatusOK)
}

// Health returns a handler for GET /healthz. A nil pinger is always healthy.
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				log.Error().Err(err).Msg("Health check failed")
				respondJSON(w, map[string]string{"status": "unavailable"}, http.StatusServiceUnavailable)
				return
			}
		}
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}

// NotFound answers unknown routes in the same JSON shape as every other error
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, "Not found", http.StatusNotFound)
}

// MethodNotAllowed answers known paths hit with the wrong verb
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
}
