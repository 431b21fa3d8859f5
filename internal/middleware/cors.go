package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

func AllowCors(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept", "Content-Type", "Content-Length", "Accept-Encoding",
			"Authorization", SessionTokenHeader,
		},
		ExposedHeaders:   []string{SessionTokenHeader},
		AllowCredentials: true,
	}).Handler
}
