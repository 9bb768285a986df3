package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
)

// CORS applies the configured origins. Browser clients need the token,
// replay and rate limit headers exposed to read them.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", idempotencyHeader, requestIDHeader, "X-Requested-With"},
		ExposedHeaders: []string{requestIDHeader, TokenHeader, replayedHeader, "Retry-After"},
		// Bearer tokens travel in headers, never cookies.
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
