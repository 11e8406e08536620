package middleware

import (
	"fmt"
	"net/http"

	"github.com/emeena/quotation-api/internal/config"
)

// SecurityHeaders sets the configured browser hardening headers
func SecurityHeaders(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	headers := map[string]string{
		"X-Frame-Options":         cfg.FrameOptions,
		"X-XSS-Protection":        cfg.XSSProtection,
		"Content-Security-Policy": cfg.ContentSecurityPolicy,
		"Referrer-Policy":         cfg.ReferrerPolicy,
		"Permissions-Policy":      cfg.PermissionsPolicy,
	}
	if cfg.ContentTypeNosniff {
		headers["X-Content-Type-Options"] = "nosniff"
	}
	if cfg.EnableHSTS {
		hsts := fmt.Sprintf("max-age=%d", cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		headers["Strict-Transport-Security"] = hsts
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for name, value := range headers {
				if value != "" {
					h.Set(name, value)
				}
			}
			h.Del("X-Powered-By")
			h.Del("Server")
			next.ServeHTTP(w, r)
		})
	}
}
