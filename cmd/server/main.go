package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"orbit.backend/internal/config"
	domainrepo "orbit.backend/internal/domain/repositories"
	"orbit.backend/internal/infrastructure/branding"
	"orbit.backend/internal/infrastructure/cache"
	"orbit.backend/internal/infrastructure/models"
	"orbit.backend/internal/infrastructure/repositories"
	"orbit.backend/internal/interfaces/http/handlers"
	"orbit.backend/internal/interfaces/http/middleware"
	"orbit.backend/internal/usecases"
	"orbit.backend/pkg/jwt"
	"orbit.backend/pkg/logger"
	"orbit.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = openDatabase
	getStdDB   = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
	runServer  = serveUntilDone
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runMainProcess(ctx); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true, PrepareStmt: false}
	switch cfg.Driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case "postgres", "":
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.URL(),
			PreferSimpleProtocol: true,
		}), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

func runMainProcess(ctx context.Context) error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	// the customization cache is optional; without redis every load hits the source
	if cfg.Redis.URL != "" {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
			logger.Warn(ctx, "Redis unavailable, customization cache disabled", zap.Error(err))
		} else {
			logger.Info(ctx, "Redis initialized")
			defer func() { _ = redis.Close() }()
		}
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Database connected", zap.String("driver", cfg.Database.Driver))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := buildRouter(cfg, db, reg)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info(ctx, "Orbit backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)
	if err := runServer(ctx, srv); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// buildRouter wires repositories, usecases and handlers into the gin engine.
func buildRouter(cfg *config.Config, db *gorm.DB, reg *prometheus.Registry) *gin.Engine {
	metrics := usecases.NewMetrics(reg)

	storeRepo := repositories.NewStoreRepository(db)
	customizationRepo := repositories.NewCustomizationRepository(db)
	uow := repositories.NewUnitOfWork(db)

	var (
		source domainrepo.CustomizationSource = customizationRepo
		writer domainrepo.CustomizationWriter = customizationRepo
		cached domainrepo.CustomizationCache
	)
	if cfg.Customization.BrandingServiceURL != "" {
		// branding is owned by the remote service; admin edits go there
		source = branding.NewClient(cfg.Customization.BrandingServiceURL, cfg.Customization.Timeout)
		writer = nil
	}
	if redis.Enabled() {
		cached = cache.NewCustomizationCache()
	}

	loader := usecases.NewCustomizationLoader(source, writer, cached, storeRepo, usecases.CustomizationLoaderConfig{
		Timeout:  cfg.Customization.Timeout,
		CacheTTL: cfg.Customization.CacheTTL,
	}, metrics)
	dispatcher := usecases.NewThemeDispatcher(metrics)
	resolver := usecases.NewTenantResolver(storeRepo, loader, dispatcher, cfg.Tenancy.PlatformDomains, metrics)
	lifecycle := usecases.NewLifecycleUsecase(storeRepo, uow, metrics)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	applyCORSMiddleware(r)

	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	registerAPIV1Routes(r, routeDeps{
		storefrontHandler:    handlers.NewStorefrontHandler(resolver),
		themeHandler:         handlers.NewThemeHandler(dispatcher),
		storeHandler:         handlers.NewStoreHandler(lifecycle),
		customizationHandler: handlers.NewCustomizationHandler(loader),
		authMiddleware:       middleware.AuthMiddleware(jwtService),
	})
	if cfg.Server.IsDevelopment() {
		registerDevRoutes(r, handlers.NewPreviewHandler())
	}
	return r
}

// serveUntilDone serves until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func serveUntilDone(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
