package middleware

import (
	"net/http"
	"strings"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuditConfig controls which requests produce an audit entry
type AuditConfig struct {
	// SkipPaths are path prefixes that are never audited
	SkipPaths []string
	// SkipSuffixes are path endings of POST routes that change nothing
	SkipSuffixes []string
	// AuditReads also records GET requests
	AuditReads bool
}

func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths:    []string{"/health", "/swagger"},
		SkipSuffixes: []string{"/calculate"},
	}
}

// AuditMiddleware writes a structured "audit" log entry for every successful
// change made through the API
type AuditMiddleware struct {
	config *AuditConfig
	logger *zap.Logger
}

func NewAuditMiddleware(config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		config: config,
		logger: logger.Named("audit"),
	}
}

func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		action := actionFor(r.Method, m.config.AuditReads)
		if action == "" || m.skipped(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		if rw.statusCode < 200 || rw.statusCode >= 300 {
			return
		}

		fields := []zap.Field{
			zap.String("action", action),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status_code", rw.statusCode),
			zap.String("request_id", r.Header.Get(RequestIDHeader)),
		}
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			fields = append(fields, zap.String("entity", entityFromPattern(rctx.RoutePattern())))
			if id := rctx.URLParam("id"); id != "" {
				fields = append(fields, zap.String("entity_id", id))
			}
		}
		if userCtx, ok := auth.FromContext(r.Context()); ok {
			fields = append(fields,
				zap.String("user_id", userCtx.UserID.String()),
				zap.String("role", string(userCtx.Role)))
		}
		m.logger.Info("audit", fields...)
	})
}

func (m *AuditMiddleware) skipped(path string) bool {
	for _, prefix := range m.config.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	path = strings.TrimSuffix(path, "/")
	for _, suffix := range m.config.SkipSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func actionFor(method string, auditReads bool) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	case http.MethodGet:
		if auditReads {
			return "read"
		}
	}
	return ""
}

// entityFromPattern maps a route pattern like /api/v1/quotations/{id}/status
// to the resource it addresses
func entityFromPattern(pattern string) string {
	for _, part := range strings.Split(strings.Trim(pattern, "/"), "/") {
		switch part {
		case "quotations":
			return "quotation"
		case "invoices":
			return "invoice"
		case "users", "auth":
			return "user"
		}
	}
	return "unknown"
}
