package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "loan-portal/internal/adapter/http"
	mw "loan-portal/internal/adapter/middleware"
	"loan-portal/internal/adapter/repository/gormrepo"
	"loan-portal/internal/config"
	"loan-portal/internal/infrastructure/cache"
	"loan-portal/internal/infrastructure/db"
	"loan-portal/internal/infrastructure/logger"
	"loan-portal/internal/infrastructure/metrics"
	"loan-portal/internal/infrastructure/security"
	"loan-portal/internal/usecase/admin"
	"loan-portal/internal/usecase/application"
	"loan-portal/internal/usecase/auth"
	"loan-portal/pkg/id"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.MySQLDSN()
	if cfg.DBDriver == db.DriverSQLite {
		var err error
		if dsn, err = db.SQLiteDSN(cfg.SQLitePath); err != nil {
			return nil, err
		}
	}
	gdb, err := db.OpenGorm(cfg.DBDriver, dsn, !cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	return gdb, db.Migrate(gdb)
}

func run(cfg *config.Config, zl *zap.Logger) error {
	gdb, err := openDB(cfg)
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m := metrics.New()
	tokens, err := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return err
	}

	users := gormrepo.NewUserRepository(gdb)
	apps := gormrepo.NewApplicationRepository(gdb)
	events := gormrepo.NewEventRepository(gdb)
	tx := gormrepo.NewGormUoW(gdb)

	authUC := auth.NewUsecase(users, security.BcryptHasher{}, tokens, zl)
	appUC := application.NewUsecase(apps, events, tx, cfg.MinLoanAmount,
		application.WithRecorder(m),
		application.WithLogger(zl),
	)
	adminUC := admin.NewUsecase(users, apps, events, cfg.RecentApplications, cfg.RecentEvents)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := authUC.SeedAdmin(ctx, cfg.AdminSeedEmail, cfg.AdminSeedPassword); err != nil {
		return err
	}

	routes := httpadp.Routes{
		Health:       httpadp.NewHandler(sqlDB),
		Auth:         httpadp.NewAuthHandler(authUC, zl, cfg.IsProduction()),
		Applications: httpadp.NewApplicationHandler(appUC, zl),
		Admin:        httpadp.NewAdminHandler(adminUC, zl),
		AuthLimiter:  mw.RateLimit(10, 10*time.Minute, "too many authentication attempts, please try again later"),
	}
	if cfg.RedisAddr != "" {
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		rdb, err := cache.OpenRedis(rctx, cfg.RedisAddr, cfg.RedisDB)
		cancel()
		if err != nil {
			return err
		}
		defer rdb.Close()
		routes.Health.WithRedis(cache.Pinger{Client: rdb})
		routes.Idempotency = mw.Idempotency(rdb, cfg.IdempotencyTTL(), zl)
	} else {
		zl.Info("REDIS_ADDR not set, idempotency keys disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: id.New}),
		mw.RequestLogger(zl),
		middleware.Secure(),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders: []string{
				echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
				echo.HeaderAuthorization, mw.HeaderIdempotencyKey,
			},
		}),
		m.Middleware(),
		mw.RateLimit(200, 15*time.Minute, "too many requests, please try again later"),
		mw.Principal(authUC, zl),
	)
	e.GET("/metrics", m.Handler())
	routes.Register(e)

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv), zap.String("db", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
