package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/gestao-agenda/internal/audit"
	"github.com/BruksfildServices01/gestao-agenda/internal/config"
	dbpkg "github.com/BruksfildServices01/gestao-agenda/internal/db"
	domain "github.com/BruksfildServices01/gestao-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/gestao-agenda/internal/infra/cache"
	"github.com/BruksfildServices01/gestao-agenda/internal/infra/storage"
	"github.com/BruksfildServices01/gestao-agenda/internal/logger"
	"github.com/BruksfildServices01/gestao-agenda/internal/media"
	"github.com/BruksfildServices01/gestao-agenda/internal/metrics"
	"github.com/BruksfildServices01/gestao-agenda/internal/middleware"
	"github.com/BruksfildServices01/gestao-agenda/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	m := metrics.New()

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	var snapshotCache domain.SnapshotCache = domain.NoopSnapshotCache{}
	if cfg.CacheEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, cache will miss until it recovers")
		}
		cancel()

		snapshotCache = cache.NewRedisSnapshotCache(rdb, cfg.SnapshotTTL, log, m)
	}

	var uploader *media.PhotoUploader
	if cfg.StorageEnabled() {
		uploader = media.NewPhotoUploader(storage.NewS3Store(cfg))
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		m.Middleware(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	routes.RegisterRoutes(r, routes.Deps{
		DB:          db,
		Config:      cfg,
		Cache:       snapshotCache,
		AuditLogger: auditLogger,
		Audit:       auditDispatcher,
		Metrics:     m,
		Uploader:    uploader,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	auditDispatcher.Close()

	log.Info().Msg("server stopped")
}
