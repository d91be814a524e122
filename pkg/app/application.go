package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/osvaldoandrade/storeq/internal/metrics"
	"github.com/osvaldoandrade/storeq/internal/middleware"
	"github.com/osvaldoandrade/storeq/internal/providers"
	"github.com/osvaldoandrade/storeq/internal/ratelimit"
	"github.com/osvaldoandrade/storeq/internal/services"
	"github.com/osvaldoandrade/storeq/internal/tracing"
	"github.com/osvaldoandrade/storeq/pkg/auth"
	"github.com/osvaldoandrade/storeq/pkg/config"
	"github.com/osvaldoandrade/storeq/pkg/domain"
	"github.com/osvaldoandrade/storeq/pkg/persistence"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Application struct {
	Config      *config.Config
	Engine      *gin.Engine
	Logger      *slog.Logger
	Persistence persistence.PluginPersistence
	Verifier    auth.Verifier
	Issuer      auth.Issuer
	Auth        services.AuthService
	Directory   services.DirectoryService
	Users       services.UsersService
	Products    services.ProductsService
	Categories  services.CategoriesService
	RateLimiter ratelimit.Limiter

	// TracingShutdown flushes the trace exporter; nil-safe for callers.
	TracingShutdown func(context.Context) error
}

// ApplicationOption configures the Application
type ApplicationOption func(*Application) error

// WithVerifier sets a custom token verifier, bypassing the auth registry.
func WithVerifier(verifier auth.Verifier) ApplicationOption {
	return func(app *Application) error {
		app.Verifier = verifier
		return nil
	}
}

// WithPersistence sets a pre-built persistence plugin, bypassing the
// persistence registry.
func WithPersistence(store persistence.PluginPersistence) ApplicationOption {
	return func(app *Application) error {
		app.Persistence = store
		return nil
	}
}

func NewApplication(cfg *config.Config, opts ...ApplicationOption) (*Application, error) {
	level := new(slog.LevelVar)
	switch cfg.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler).With("service", "storeq", "env", cfg.Env)
	slog.SetDefault(logger)

	app := &Application{Config: cfg, Logger: logger}

	// Apply options before defaults so tests can inject fakes.
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.Persistence == nil {
		store, err := persistence.NewPersistence(
			persistence.ProviderConfig{Type: cfg.PersistenceProvider, Config: cfg.PersistenceConfig},
			persistence.PluginConfig{Config: cfg.PersistenceConfig, Namespace: cfg.Namespace},
		)
		if err != nil {
			return nil, err
		}
		app.Persistence = store
	}

	if app.Verifier == nil {
		verifier, err := auth.NewVerifier(auth.ProviderConfig{
			Type:   cfg.AuthProvider,
			Config: cfg.AuthConfig,
		})
		if err != nil {
			return nil, err
		}
		app.Verifier = verifier
	}
	if issuer, ok := app.Verifier.(auth.Issuer); ok {
		app.Issuer = issuer
	}

	if cfg.RateLimit.Login.RequestsPerMinute > 0 && cfg.RateLimit.Login.BurstSize > 0 {
		app.RateLimiter = ratelimit.NewRedisLimiter(providers.NewRedisProvider(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	}

	users := app.Persistence.UserStorage()
	products := app.Persistence.ProductStorage()
	categories := app.Persistence.CategoryStorage()
	uploader := providers.NewLocalUploader(cfg.LocalAssetsDir)

	app.Auth = services.NewAuthService(users, app.Issuer, logger, time.Now)
	app.Directory = services.NewDirectoryService(users, logger)
	app.Users = services.NewUsersService(users, logger, time.Now)
	app.Products = services.NewProductsService(products, categories, uploader, logger, time.Now)
	app.Categories = services.NewCategoriesService(categories, products, logger, time.Now)

	metrics.RegisterStorageCollector(app.Persistence, logger)

	shutdown, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  "storeq",
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		OTLPInsecure: cfg.Tracing.OTLPInsecure,
		SampleRatio:  cfg.Tracing.SampleRatio,
	}, logger)
	if err != nil {
		// Fail open: the catalog serves without traces.
		logger.Warn("tracing setup failed", "err", err)
	}
	app.TracingShutdown = shutdown

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(logger),
		middleware.TracingMiddleware("storeq"),
	)
	app.Engine = engine

	return app, nil
}

// Bootstrap creates the configured bootstrap admin account when no user with
// that username exists yet. It is idempotent across restarts.
func (app *Application) Bootstrap(ctx context.Context) error {
	b := app.Config.Bootstrap
	if !b.Enabled() {
		return nil
	}

	users := app.Persistence.UserStorage()
	if _, err := users.FindByUsername(ctx, b.Username); err == nil {
		return nil
	} else if !errors.Is(err, persistence.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(b.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.NewString(),
		Username:     b.Username,
		Email:        b.Email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Save(ctx, admin); err != nil {
		if errors.Is(err, persistence.ErrAlreadyExists) {
			return nil
		}
		return err
	}
	app.Logger.Info("bootstrap admin created", "username", b.Username)
	return nil
}
