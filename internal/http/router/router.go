package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/config"
	"github.com/emeena/quotation-api/internal/database"
	"github.com/emeena/quotation-api/internal/domain"
	"github.com/emeena/quotation-api/internal/http/handler"
	"github.com/emeena/quotation-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/emeena/quotation-api/docs" // registers the swagger spec
)

const healthTimeout = 3 * time.Second

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	checkDB          database.Checker
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	auditMiddleware  *middleware.AuditMiddleware
	quotationHandler *handler.QuotationHandler
	invoiceHandler   *handler.InvoiceHandler
	authHandler      *handler.AuthHandler
	catalogHandler   *handler.CatalogHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	checkDB database.Checker,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	quotationHandler *handler.QuotationHandler,
	invoiceHandler *handler.InvoiceHandler,
	authHandler *handler.AuthHandler,
	catalogHandler *handler.CatalogHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		checkDB:          checkDB,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		auditMiddleware:  auditMiddleware,
		quotationHandler: quotationHandler,
		invoiceHandler:   invoiceHandler,
		authHandler:      authHandler,
		catalogHandler:   catalogHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	handler.ExposeErrorDetail(!rt.cfg.App.IsProduction())

	r := chi.NewRouter()

	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, &rt.cfg.App, rt.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/health/db", rt.databaseHealth)
	r.Get("/health/ready", rt.readiness)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Group(func(r chi.Router) {
			r.Use(rt.rateLimiter.LimitByIP)
			r.Post("/auth/register", rt.authHandler.Register)
			r.Post("/auth/login", rt.authHandler.Login)
		})

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.LimitByUser)
			r.Use(rt.auditMiddleware.Audit)

			r.Route("/auth", func(r chi.Router) {
				r.Get("/profile", rt.authHandler.GetProfile)
				r.Put("/profile", rt.authHandler.UpdateProfile)
				r.Put("/change-password", rt.authHandler.ChangePassword)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireRole(domain.RoleAdmin))
					r.Get("/users", rt.authHandler.ListUsers)
					r.Put("/users/{id}/role", rt.authHandler.UpdateUserRole)
				})
			})

			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.List)
				r.Post("/", rt.quotationHandler.Create)
				r.Get("/stats", rt.quotationHandler.Stats)
				r.Post("/calculate", rt.quotationHandler.Calculate)
				r.Get("/{id}", rt.quotationHandler.GetByID)
				r.Put("/{id}", rt.quotationHandler.Update)
				r.Delete("/{id}", rt.quotationHandler.Delete)
				r.Patch("/{id}/status", rt.quotationHandler.UpdateStatus)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.invoiceHandler.List)
				r.Post("/", rt.invoiceHandler.Create)
				r.Get("/stats", rt.invoiceHandler.Stats)
				r.Post("/calculate", rt.invoiceHandler.Calculate)
				r.Get("/{id}", rt.invoiceHandler.GetByID)
				r.Put("/{id}", rt.invoiceHandler.Update)
				r.Delete("/{id}", rt.invoiceHandler.Delete)
				r.Patch("/{id}/status", rt.invoiceHandler.UpdateStatus)
			})

			r.Get("/catalog/line-items", rt.catalogHandler.LineItems)
		})
	})

	return r
}

func (rt *Router) databaseHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	stats, err := rt.checkDB(ctx)
	if err != nil {
		rt.logger.Error("database health check failed", zap.Error(err))
		writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"service": "database",
			"error":   err.Error(),
		})
		return
	}
	writeHealth(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats":   stats,
	})
}

func (rt *Router) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status, code := "healthy", http.StatusOK
	dbCheck := map[string]interface{}{"status": "healthy"}
	if _, err := rt.checkDB(ctx); err != nil {
		rt.logger.Error("readiness check failed", zap.Error(err))
		status, code = "unhealthy", http.StatusServiceUnavailable
		dbCheck = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
	}

	writeHealth(w, code, map[string]interface{}{
		"status": status,
		"checks": map[string]interface{}{"database": dbCheck},
	})
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
