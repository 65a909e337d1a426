// Package api exposes code rendering and the preferences over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/pkg/logger/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Server holds the dependencies for all HTTP handlers.
type Server struct {
	Prefs   *preferences.Preferences
	Log     *types.Logger
	Version string
}

// NewRouter returns a fully configured chi router with all API routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger(s.Log))

	r.Get("/status", s.handleStatus)

	// Rendering
	r.Get("/render", s.handleRender)
	r.Get("/placeholder.png", s.handlePlaceholder)

	// Preferences
	r.Get("/preferences", s.handleGetPreferences)
	r.Patch("/preferences", s.handlePatchPreferences)
	r.Post("/preferences/reset", s.handleResetPreferences)

	return r
}

// --- helpers ----------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// --- middleware --------------------------------------------------------------

const requestIDHeader = "X-Request-ID"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func requestLogger(log *types.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", w.Header().Get(requestIDHeader),
			)
		})
	}
}
