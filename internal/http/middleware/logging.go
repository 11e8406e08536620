package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	written     int64
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging assigns a request id (reusing a client supplied one) and writes
// one access log line per request
func Logging(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
				r.Header.Set(RequestIDHeader, requestID)
			}
			w.Header().Set(RequestIDHeader, requestID)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status_code", rw.statusCode),
				zap.Int64("response_size", rw.written),
				zap.Duration("duration", duration),
			}
			if userCtx, ok := auth.FromContext(r.Context()); ok {
				fields = append(fields, zap.String("user_id", userCtx.UserID.String()))
			}

			reqLog := logger.WithRequest(log, r.Method, r.URL.Path, requestID)
			msg := fmt.Sprintf("%s %-30s -> %3d (%s)", r.Method, r.URL.Path, rw.statusCode, duration.Truncate(time.Microsecond))
			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				reqLog.Error(msg, fields...)
			case rw.statusCode >= http.StatusBadRequest:
				reqLog.Warn(msg, fields...)
			default:
				reqLog.Info(msg, fields...)
			}
		})
	}
}

// Recovery turns a handler panic into a 500 envelope and logs the stack
func Recovery(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.WithRequest(log, r.Method, r.URL.Path, r.Header.Get(RequestIDHeader)).Error("panic recovered",
						zap.Any("panic", rec),
						zap.ByteString("stack", debug.Stack()))

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(domain.Envelope{
						Success: false,
						Message: "internal server error",
						Error:   domain.ErrorCodeInternal,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
