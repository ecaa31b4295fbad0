package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sandoog/internal/config"
	"sandoog/internal/controllers"
	"sandoog/internal/lock"
	"sandoog/internal/logger"
	"sandoog/internal/middleware"
	"sandoog/internal/routes"
	"sandoog/internal/services"
	"sandoog/internal/storage"
)

type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	store  *storage.Gateway
	redis  *lock.Redis
	reaper *services.GuestReaper
	server *http.Server
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, out := logger.Setup(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel, Stdout: cfg.LogStdout})
	if !log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(cfg, logger.GormLogger(log))
	if err != nil {
		return nil, err
	}
	log.WithField("driver", cfg.DBDriver).Info("database ready")

	a := &app{cfg: cfg, log: log, store: storage.NewGateway(db)}

	var locker lock.Locker = lock.Local{}
	if cfg.RedisAddr != "" {
		a.redis = lock.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.redis.Ping(ctx); err != nil {
			_ = a.store.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		locker = a.redis
		log.WithField("addr", cfg.RedisAddr).Info("guest sweep lock uses redis")
	}

	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	identity := services.NewIdentityService(a.store, tokens, log.WithField("component", "identity"))
	ledgers := services.NewLedgers(a.store)

	a.reaper = services.NewGuestReaper(a.store, locker, log.WithField("component", "reaper"),
		cfg.ReaperInterval, cfg.GuestIdleTimeout)

	router := routes.SetupRouter(routes.Deps{
		Controller:  controllers.New(identity, ledgers, a.store, log.WithField("component", "http")),
		Tokens:      tokens,
		AccessLog:   out,
		CORSOrigins: cfg.CORSOrigins,
		GuestLimit:  middleware.RateLimitConfig{RequestsPerWindow: cfg.GuestRatePerMinute, Window: time.Minute},
	})

	a.server = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          stdlog.New(log.WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return a, nil
}

// run serves until SIGINT or SIGTERM and then shuts down.
func (a *app) run() error {
	a.reaper.Start()

	serverErrors := make(chan error, 1)
	go func() {
		a.log.WithField("addr", a.server.Addr).Info("server listening")
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.shutdown()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		a.log.WithField("signal", sig.String()).Info("shutdown signal received")
		a.shutdown()
	}
	return nil
}

func (a *app) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.log.WithError(err).Error("graceful server shutdown failed")
		_ = a.server.Close()
	}

	a.reaper.Stop()

	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Error("error closing database")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Error("error closing redis")
		}
	}
	a.log.Info("server stopped")
}
