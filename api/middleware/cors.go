package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS applies the storefront's cross-origin policy: any origin may
// call the API. No credentialed requests; the session cookie only
// travels on same-site fragment endpoints.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler
}
