package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/config"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"
)

// RateLimiter throttles anonymous traffic per client IP and authenticated
// traffic per user
type RateLimiter struct {
	cfg            *config.RateLimitConfig
	logger         *zap.Logger
	ipLimiter      func(http.Handler) http.Handler
	userLimiter    func(http.Handler) http.Handler
	whitelistIPs   map[string]struct{}
	whitelistPaths []string
}

func NewRateLimiter(cfg *config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		cfg:            cfg,
		logger:         logger,
		whitelistIPs:   make(map[string]struct{}, len(cfg.WhitelistIPs)),
		whitelistPaths: cfg.WhitelistPaths,
	}
	for _, ip := range cfg.WhitelistIPs {
		rl.whitelistIPs[ip] = struct{}{}
	}

	rl.ipLimiter = httprate.Limit(
		cfg.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return "ip:" + ClientIP(r), nil
		}),
		httprate.WithLimitHandler(rl.exceeded),
	)
	rl.userLimiter = httprate.Limit(
		cfg.RequestsPerMinuteAuth,
		time.Minute,
		httprate.WithKeyFuncs(keyByUserOrIP),
		httprate.WithLimitHandler(rl.exceeded),
	)

	if cfg.Enabled {
		logger.Info("rate limiter initialized",
			zap.Int("requests_per_minute", cfg.RequestsPerMinute),
			zap.Int("requests_per_minute_auth", cfg.RequestsPerMinuteAuth))
	}
	return rl
}

// LimitByIP applies the anonymous limit. Used in front of login and register.
func (rl *RateLimiter) LimitByIP(next http.Handler) http.Handler {
	return rl.wrap(next, rl.ipLimiter)
}

// LimitByUser applies the per-user limit. Must run after authentication.
func (rl *RateLimiter) LimitByUser(next http.Handler) http.Handler {
	return rl.wrap(next, rl.userLimiter)
}

func (rl *RateLimiter) wrap(next http.Handler, limiter func(http.Handler) http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	limited := limiter(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.exempt(r) {
			next.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) exempt(r *http.Request) bool {
	if _, ok := rl.whitelistIPs[ClientIP(r)]; ok {
		return true
	}
	for _, p := range rl.whitelistPaths {
		if p == r.URL.Path {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "/*"); ok && strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

func keyByUserOrIP(r *http.Request) (string, error) {
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		return "user:" + userCtx.UserID.String(), nil
	}
	return "ip:" + ClientIP(r), nil
}

// ClientIP returns the originating client address, honouring proxy headers
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiter) exceeded(w http.ResponseWriter, r *http.Request) {
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("client_ip", ClientIP(r)),
	}
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		fields = append(fields, zap.String("user_id", userCtx.UserID.String()))
	}
	rl.logger.Warn("rate limit exceeded", fields...)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", "60")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(domain.Envelope{
		Success: false,
		Message: "too many requests, please try again later",
		Error:   domain.ErrorCodeRateLimited,
	})
}
