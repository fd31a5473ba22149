package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/infra/backend"
	"github.com/BruksfildServices01/barber-booking/internal/infra/fallback"
	"github.com/BruksfildServices01/barber-booking/internal/infra/sessionstore"
	"github.com/BruksfildServices01/barber-booking/internal/jobs"
	"github.com/BruksfildServices01/barber-booking/internal/logging"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/session"
	"github.com/BruksfildServices01/barber-booking/internal/shape"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucBooking "github.com/BruksfildServices01/barber-booking/internal/usecase/booking"
)

const (
	janitorSchedule = "@every 1m"
	shutdownTimeout = 15 * time.Second
)

func main() {

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// SHAPE + METRICS
	// ======================================================
	fields := shape.DefaultCatalog()
	if cfg.FieldCatalogPath != "" {
		loaded, err := shape.LoadCatalog(cfg.FieldCatalogPath)
		if err != nil {
			return fmt.Errorf("field catalog: %w", err)
		}
		fields = loaded
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(reg)

	loc := timezone.Location(cfg.ShopTimezone)

	// ======================================================
	// FALLBACK DATASET
	// ======================================================
	dataset, err := fallback.New(fallback.Embedded(), fields)
	if err != nil {
		return fmt.Errorf("fallback dataset: %w", err)
	}

	refresher, err := startFallback(ctx, cfg, dataset, logger)
	if err != nil {
		return err
	}
	if refresher != nil {
		defer refresher.Stop()
	}

	// ======================================================
	// BACKEND + SESSIONS
	// ======================================================
	client := backend.NewClient(cfg.BackendAPIURL,
		backend.WithTimeout(cfg.HTTPTimeout),
		backend.WithLogger(logger.Named("backend")),
		backend.WithMetrics(recorder),
	)

	store, purger, gdb, err := openSessionStore(cfg, logger)
	if err != nil {
		return err
	}

	var sink audit.Sink = audit.NewZapSink(logger)
	if gdb != nil {
		sink = audit.New(gdb)
	}
	dispatcher := audit.NewDispatcher(sink, logger)
	defer dispatcher.Close()

	sessions, err := session.NewManager(store, client, session.Options{
		JWTSecret: cfg.JWTSecret,
		SealKey:   cfg.SessionSealKey,
		TTL:       cfg.SessionTTL,
		Logger:    logger.Named("session"),
	})
	if err != nil {
		return err
	}

	// ======================================================
	// USE CASES
	// ======================================================
	catalog := ucBooking.NewCatalog(client, dataset, fields,
		ucBooking.WithCatalogLogger(logger.Named("catalog")),
		ucBooking.WithCatalogMetrics(recorder),
		ucBooking.WithFetchTimeout(cfg.FetchTimeout),
	)

	ucDeps := ucBooking.Deps{
		Backend: client,
		Fields:  fields,
		Audit:   dispatcher,
		Metrics: recorder,
		Logger:  logger.Named("booking"),
		Timeout: cfg.FetchTimeout,
	}

	forms := ucBooking.NewFormRegistry(ucBooking.FormDeps{
		Schedule:  catalog,
		Submitter: ucBooking.NewSubmitAppointment(ucDeps),
		Location:  loc,
		Metrics:   recorder,
		Logger:    logger.Named("form"),
		Now:       timezone.Clock(loc),
	}, cfg.FormIdleTTL)

	janitor := jobs.NewJanitor(forms, purger, logger)
	if err := janitor.Start(janitorSchedule); err != nil {
		return err
	}
	defer janitor.Stop()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessions,
		Catalog:  catalog,
		Forms:    forms,
		Cancel:   ucBooking.NewCancelAppointment(ucDeps),
		Audit:    dispatcher,
		Gatherer: reg,
		DB:       gdb,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("backend", cfg.BackendAPIURL),
			zap.String("session_store", cfg.SessionStore),
			zap.String("timezone", loc.String()),
		)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// startFallback points the dataset at its configured source. With a refresh
// schedule it keeps reloading; without one it loads once. The embedded copy
// stays in use when the source is unreachable.
func startFallback(ctx context.Context, cfg *config.Config, dataset *fallback.Dataset, logger *zap.Logger) (*fallback.Refresher, error) {
	var src fallback.Source
	switch {
	case cfg.Fallback.UsesS3():
		s3Client := fallback.NewS3Client(fallback.S3Config{
			Region:    cfg.Fallback.S3Region,
			Endpoint:  cfg.Fallback.S3Endpoint,
			AccessKey: cfg.Fallback.S3AccessKey,
			SecretKey: cfg.Fallback.S3SecretKey,
		})
		src = fallback.NewS3Source(s3Client, cfg.Fallback.S3Bucket, cfg.Fallback.S3Key)
	case cfg.Fallback.FilePath != "":
		src = fallback.FileSource{Path: cfg.Fallback.FilePath}
	default:
		return nil, nil
	}

	if cfg.Fallback.Refresh == "" {
		if err := dataset.Reload(ctx, src); err != nil {
			logger.Warn("fallback dataset not loaded, using embedded copy", zap.String("source", src.Name()), zap.Error(err))
		}
		return nil, nil
	}

	refresher := fallback.NewRefresher(dataset, src, logger.Named("fallback"))
	if err := refresher.Start(cfg.Fallback.Refresh); err != nil {
		return nil, fmt.Errorf("fallback refresh schedule: %w", err)
	}
	return refresher, nil
}

// openSessionStore returns the configured store, its purger when it needs
// one, and the database when the store lives in Postgres.
func openSessionStore(cfg *config.Config, logger *zap.Logger) (session.Store, jobs.SessionPurger, *gorm.DB, error) {
	switch cfg.SessionStore {
	case config.SessionStoreRedis:
		client, err := sessionstore.NewRedisClient(cfg.RedisURL, "", cfg.RedisDB)
		if err != nil {
			return nil, nil, nil, err
		}
		return sessionstore.NewRedis(client), nil, nil, nil

	case config.SessionStorePostgres:
		gdb, err := dbpkg.NewDB(cfg.DBUrl, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		store := sessionstore.NewGorm(gdb)
		return store, store, gdb, nil

	default:
		store := sessionstore.NewMemory()
		return store, store, nil, nil
	}
}
