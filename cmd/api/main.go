package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emeena/quotation-api/docs"
	"github.com/emeena/quotation-api/internal/auth"
	"github.com/emeena/quotation-api/internal/config"
	"github.com/emeena/quotation-api/internal/database"
	"github.com/emeena/quotation-api/internal/http/handler"
	"github.com/emeena/quotation-api/internal/http/middleware"
	"github.com/emeena/quotation-api/internal/http/router"
	"github.com/emeena/quotation-api/internal/jobs"
	"github.com/emeena/quotation-api/internal/logger"
	"github.com/emeena/quotation-api/internal/repository"
	"github.com/emeena/quotation-api/internal/repository/mongostore"
	"github.com/emeena/quotation-api/internal/service"
	"go.uber.org/zap"
)

//go:generate swag init -g cmd/api/main.go -o docs --dir ../../

// @title Emeena Quotation API
// @version 1.0
// @description Quotations and invoices for the interior design studio

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// stores groups the storage implementations selected by database.driver
type stores struct {
	quotations service.QuotationStore
	invoices   service.InvoiceStore
	sequences  service.SequenceStore
	users      service.UserStore
	checkDB    database.Checker
	close      func(ctx context.Context) error
}

func run() error {
	ctx := context.Background()

	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" || basicCfg.App.Environment == "" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	} else {
		docs.SwaggerInfo.Host = ""
	}

	// Secrets come from Key Vault in staging/production, env vars otherwise
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}

	numberService := service.NewNumberSequenceService(st.sequences, log)
	quotationService := service.NewQuotationService(st.quotations, numberService, log)
	invoiceService := service.NewInvoiceService(st.invoices, numberService, log)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(st.users, tokens, cfg.Auth.BootstrapAdminEmail, log)

	authMiddleware := auth.NewMiddleware(tokens, st.users, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(nil, log)

	rt := router.NewRouter(
		cfg,
		log,
		st.checkDB,
		authMiddleware,
		rateLimiter,
		auditMiddleware,
		handler.NewQuotationHandler(quotationService, log),
		handler.NewInvoiceHandler(invoiceService, log),
		handler.NewAuthHandler(authService, log),
		handler.NewCatalogHandler(),
	)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.SequenceSyncEnabled {
		scheduler = jobs.NewScheduler(log)
		syncJob := jobs.NewSequenceSyncJob(numberService, st.quotations, st.invoices, log)
		if err := jobs.RegisterSequenceSyncJob(scheduler, syncJob, cfg.Jobs.SequenceSyncSchedule, true); err != nil {
			log.Error("Failed to register sequence sync job", zap.Error(err))
			scheduler = nil
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("Sequence sync job disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}
		if err := st.close(shutdownCtx); err != nil {
			log.Warn("Error closing database connection", zap.Error(err))
		}
		log.Info("Server stopped gracefully")
	}

	return nil
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	if cfg.Database.Driver == config.DriverMongo {
		db, err := database.NewMongoDatabase(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to create mongodb indexes: %w", err)
		}
		log.Info("Using MongoDB storage", zap.String("database", db.Name()))

		return &stores{
			quotations: mongostore.NewQuotationStore(db),
			invoices:   mongostore.NewInvoiceStore(db),
			sequences:  mongostore.NewSequenceStore(db),
			users:      mongostore.NewUserStore(db),
			checkDB:    database.MongoChecker(db),
			close:      db.Client().Disconnect,
		}, nil
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated")
	}
	log.Info("Using SQL storage", zap.String("driver", db.Dialector.Name()))

	return &stores{
		quotations: repository.NewQuotationRepository(db),
		invoices:   repository.NewInvoiceRepository(db),
		sequences:  repository.NewNumberSequenceRepository(db),
		users:      repository.NewUserRepository(db),
		checkDB:    database.GormChecker(db),
		close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}
