package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/andrewpaige1/flashdeck-api/config"
)

// CORS builds the CORS handler from configuration. CORS_ORIGIN=false turns
// it off entirely.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	enabled, reflect, origins := cfg.Origins()
	if !enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	opts := cors.Options{
		AllowedMethods:       cfg.Methods,
		AllowedHeaders:       cfg.AllowedHeaders,
		AllowCredentials:     cfg.Credentials,
		OptionsSuccessStatus: cfg.OptionsSuccessStatus,
		MaxAge:               cfg.MaxAge,
	}
	if reflect {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return cors.New(opts).Handler
}
