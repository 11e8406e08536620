package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/emeena/quotation-api/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// DefaultJWTSecret is the development signing secret. Production refuses to start with it.
const DefaultJWTSecret = "change-me-in-production"

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// IsProduction reports whether the app runs in the production environment
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

type DatabaseConfig struct {
	// Driver selects the storage backend: "postgres", "sqlite" or "mongo"
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// AutoMigrate runs GORM auto migration on startup (sqlite and local development)
	AutoMigrate bool
	SQLitePath  string
	MongoURI    string
	// MongoDatabase is the database name used with the mongo driver
	MongoDatabase string
}

// AuthConfig holds token issuance settings
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
	// BootstrapAdminEmail is granted the admin role when that address registers
	BootstrapAdminEmail string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins for CORS requests
	// Use "*" to allow all origins (not recommended for production)
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	// FrameOptions sets the X-Frame-Options header (DENY, SAMEORIGIN, or empty to disable)
	FrameOptions       string
	ContentTypeNosniff bool
	XSSProtection      string
	ReferrerPolicy     string
	PermissionsPolicy  string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the default rate limit for unauthenticated requests (per IP)
	RequestsPerMinute int
	// RequestsPerMinuteAuth is the rate limit for authenticated requests (per user)
	RequestsPerMinuteAuth int
	BurstSize             int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// JobsConfig holds background job configuration
type JobsConfig struct {
	// SequenceSyncEnabled turns on the document number reconciliation job
	SequenceSyncEnabled bool
	// SequenceSyncSchedule is a cron expression (seconds field supported)
	SequenceSyncSchedule string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TokenTTL returns the token lifetime as duration
func (a *AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLHours) * time.Hour
}

// Validate checks settings that would make the service unsafe or unusable
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwtSecret must be set")
	}
	if c.App.IsProduction() && c.Auth.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("auth.jwtSecret must be changed from the default in production")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("auth.tokenTTLHours must be positive")
	}
	return nil
}

// Load loads configuration from file and environment variables
// This is a basic load that doesn't fetch secrets from vault
// Use LoadWithSecrets for full secret resolution
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}
	if secret := v.GetString("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if uri := v.GetString("MONGO_URI"); uri != "" {
		cfg.Database.MongoURI = uri
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
//
// Key Vault is used when BOTH conditions are met:
// 1. USE_AZURE_KEY_VAULT environment variable is set to "true"
// 2. Environment is "staging" or "production"
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, cfg.Validate()
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, cfg.Validate()
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Azure Key Vault enabled for secrets",
		zap.String("environment", cfg.App.Environment),
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	if err := applySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, cfg.Validate()
}

// SecretSource is the subset of the secrets provider used to resolve configuration
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envVar string) (string, error)
}

// applySecrets overlays vault secrets onto cfg. Missing secrets leave the
// existing value in place.
func applySecrets(ctx context.Context, cfg *Config, provider SecretSource) error {
	switch cfg.Database.Driver {
	case DriverPostgres:
		if host, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-HOST", "DATABASE_HOST"); err == nil && host != "" {
			cfg.Database.Host = host
		}
		if user, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-USER", "DATABASE_USER"); err == nil && user != "" {
			cfg.Database.User = user
		}
		if password, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
			cfg.Database.Password = password
		}
		if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
			cfg.Database.SSLMode = sslMode
		}
	case DriverMongo:
		if uri, err := provider.GetSecretOrEnv(ctx, "mongo-uri", "MONGO_URI"); err == nil && uri != "" {
			cfg.Database.MongoURI = uri
		}
	}

	secret, err := provider.GetSecretOrEnv(ctx, "jwt-secret", "JWT_SECRET")
	if err != nil {
		return fmt.Errorf("failed to load jwt-secret: %w", err)
	}
	if secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Emeena Quotation API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "quotation")
	v.SetDefault("database.user", "quotation_user")
	v.SetDefault("database.password", "quotation_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", false)
	v.SetDefault("database.sqlitePath", "quotation.db")
	v.SetDefault("database.mongoURI", "mongodb://localhost:27017")
	v.SetDefault("database.mongoDatabase", "quotation")

	// Auth defaults
	v.SetDefault("auth.jwtSecret", DefaultJWTSecret)
	v.SetDefault("auth.tokenTTLHours", 24)
	v.SetDefault("auth.bootstrapAdminEmail", "")

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults - restrictive by default
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 120)
	v.SetDefault("rateLimit.burstSize", 10)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})

	// Job defaults
	v.SetDefault("jobs.sequenceSyncEnabled", true)
	v.SetDefault("jobs.sequenceSyncSchedule", "@every 1h")
}
