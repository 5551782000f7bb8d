// internal/handlers/api_server.go

// Package handlers exposes the service over HTTP: the lobby WebSocket
// endpoint plus a couple of plain endpoints for liveness and debugging.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/lobbyd/lobbyd/internal/coord"
	"github.com/lobbyd/lobbyd/internal/middleware"
)

// NewRouter builds the HTTP mux with the engine injected.
func NewRouter(logger *logrus.Logger, engine *coord.Engine) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		LobbyWSHandler(logger, engine),
	)))
	mux.Handle("/groups", middleware.LogMiddleware(logger)(http.HandlerFunc(
		ListGroupsHandler(engine),
	)))
	mux.HandleFunc("/healthz", HealthzHandler)

	return mux
}

// HealthzHandler reports liveness.
func HealthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// ListGroupsHandler returns a summary of live groups, for debugging and
// dashboards.
func ListGroupsHandler(engine *coord.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(engine.GroupSummaries())
	}
}
