// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"

	"github.com/carterperez-dev/templates/go-accounts/internal/address"
	"github.com/carterperez-dev/templates/go-accounts/internal/admin"
	"github.com/carterperez-dev/templates/go-accounts/internal/auth"
	"github.com/carterperez-dev/templates/go-accounts/internal/config"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
	"github.com/carterperez-dev/templates/go-accounts/internal/events"
	"github.com/carterperez-dev/templates/go-accounts/internal/health"
	"github.com/carterperez-dev/templates/go-accounts/internal/middleware"
	"github.com/carterperez-dev/templates/go-accounts/internal/phone"
	"github.com/carterperez-dev/templates/go-accounts/internal/role"
	"github.com/carterperez-dev/templates/go-accounts/internal/server"
	"github.com/carterperez-dev/templates/go-accounts/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("tracer initialized", "endpoint", cfg.Otel.Endpoint)
		}
	}

	var metrics *core.Metrics
	var recorder events.Recorder
	if cfg.Metrics.Enabled {
		metrics, err = core.NewMetrics(cfg.Otel.ServiceName)
		if err != nil {
			return err
		}
		recorder = metrics
	}

	if cfg.Database.AutoMigrate {
		if err := core.RunMigrations(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected", "pool_size", cfg.Redis.PoolSize)

	publisher, err := events.New(cfg.Events, redis, logger)
	if err != nil {
		return err
	}
	emitter := events.NewEmitter(publisher, recorder)
	logger.Info("event publisher ready", "driver", cfg.Events.Driver)

	hasher, err := core.NewArgon2Hasher(core.DefaultArgon2Params())
	if err != nil {
		return err
	}

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.KeyID(),
	)

	clock := core.SystemClock{}

	roleSvc := role.NewService(role.NewRepository(db.DB), db, clock, cfg.Accounts.RoleDeletePolicy)
	addressSvc := address.NewService(address.NewRepository(db.DB), db, clock)
	phoneSvc := phone.NewService(phone.NewRepository(db.DB), db, clock)

	userSvc := user.NewService(user.Dependencies{
		Repo:      user.NewRepository(db.DB),
		Roles:     roleSvc,
		Addresses: addressSvc,
		Phones:    phoneSvc,
		Hasher:    hasher,
		Clock:     clock,
		Events:    emitter,
		Accounts:  cfg.Accounts,
	})

	authSvc := auth.NewService(jwtManager, userSvc, hasher, redis)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.Sources{
		DBStats:    db.Stats,
		DBPing:     db.Ping,
		RedisStats: redis.PoolStats,
		RedisPing:  redis.Ping,
		Users:      userSvc.CountUsers,
		Roles:      roleSvc.CountRoles,
	})

	globalLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerWindow(cfg.RateLimit.Requests, cfg.RateLimit.Burst, cfg.RateLimit.Window),
		FailOpen: true,
	})
	credentialLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.LoginRequests,
			cfg.RateLimit.LoginBurst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByIPAndRoute,
		FailOpen: true,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if metrics != nil {
		router.Use(middleware.Metrics(metrics))
	}
	router.Use(globalLimiter.Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	if metrics != nil {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	router.Get("/.well-known/jwks.json", jwtManager.JWKSHandler())

	authenticator := middleware.Authenticator(authSvc)
	adminOnly := middleware.RequireAdmin

	userHandler := user.NewHandler(userSvc).LimitRegistration(credentialLimiter.Handler)
	addressHandler := address.NewHandler(addressSvc, userSvc)
	phoneHandler := phone.NewHandler(phoneSvc, userSvc)

	router.Route("/v1", func(r chi.Router) {
		auth.NewHandler(authSvc).RegisterRoutes(r, authenticator, credentialLimiter.Handler)
		role.NewHandler(roleSvc).RegisterRoutes(r, authenticator, adminOnly)
		userHandler.RegisterRoutes(r, authenticator, adminOnly,
			addressHandler.Routes,
			phoneHandler.Routes,
		)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	globalLimiter.Stop()
	credentialLimiter.Stop()

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", "error", err)
	}

	if metrics != nil {
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics shutdown error", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	switch cfg.Format {
	case "pretty":
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	case "text":
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}
