package middleware

import (
	"net/http"

	"github.com/emeena/quotation-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func allowAnyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}

// CORS builds the cross-origin policy. A "*" entry or an empty list outside
// production allows any origin; an empty list in production denies all.
func CORS(cfg *config.CORSConfig, app *config.AppConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	wildcard := false
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			wildcard = true
			break
		}
	}

	switch {
	case wildcard:
		if app.IsProduction() {
			logger.Warn("CORS allows any origin in production")
		}
		options.AllowOriginFunc = allowAnyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case app.IsProduction():
		// an empty AllowedOrigins means "*" to the cors package
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, cross-origin requests will be denied")
	default:
		options.AllowOriginFunc = allowAnyOrigin
	}

	return cors.Handler(options)
}
