// Command server runs the workshop back office API.
//
// @title                      Workshop Back Office API
// @version                    1.0
// @description                Enrollments, billing and reports for a children's workshop business.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/officina/workshop-system/internal/api"
	"github.com/officina/workshop-system/internal/api/handler"
	"github.com/officina/workshop-system/internal/api/metrics"
	"github.com/officina/workshop-system/internal/core/service"
	"github.com/officina/workshop-system/internal/infrastructure/config"
	"github.com/officina/workshop-system/internal/infrastructure/db/mongo"
	"github.com/officina/workshop-system/internal/infrastructure/db/redis"
	"github.com/officina/workshop-system/internal/infrastructure/queue"
	"github.com/officina/workshop-system/internal/infrastructure/snapshot"
	"github.com/officina/workshop-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "workshop-system",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	policy, err := service.ParsePricingPolicy(cfg.Billing.PricePolicy)
	if err != nil {
		return err
	}

	// --- Stores ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "workshop-system",
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	// --- Snapshot ---
	holder := snapshot.NewHolder(mongo.NewSnapshotRepository(db), logger.Component(log, "snapshot"))
	holder.OnRefresh(metrics.ObserveRefresh)
	if err := holder.Refresh(ctx); err != nil {
		return err
	}
	watcher := snapshot.NewWatcher(holder, mongo.NewChangeNotifier(db, logger.Component(log, "change_stream")), cfg.Snapshot.PollInterval, logger.Component(log, "watcher"))
	go watcher.Run(ctx)

	// --- Workers ---
	dispatcher := queue.NewDispatcher(cfg.Dispatcher.Workers, logger.Component(log, "dispatcher"))
	dispatcher.OnDepth(metrics.ObserveQueueDepth)
	dispatcher.Start(ctx)

	// --- Services ---
	billing := service.NewBillingReconciler(policy)
	deps := api.Dependencies{
		Auth: service.NewAuthService(mongo.NewAuthRepository(db), cfg.JWTSecret, cfg.TokenTTL),
		Enrollments: service.NewEnrollmentService(service.EnrollmentServiceDeps{
			Snapshots:   holder,
			Enrollments: mongo.NewEnrollmentRepository(db),
			Payments:    mongo.NewPaymentRepository(db),
			Locker:      redis.NewSlotLock(rdb, cfg.Redis.SlotLockTTL),
			Serializer:  dispatcher,
		}, logger.Component(log, "enrollments")),
		Clients:   service.NewClientService(holder, billing),
		Cascade:   service.NewCascadeService(holder, mongo.NewCascadeRepository(mongoClient, db), logger.Component(log, "cascade")),
		Reports:   service.NewReportService(holder, service.NewReportAggregator(billing), redis.NewReportCache(rdb, cfg.Redis.ReportCacheTTL), cfg.Redis.ReportCacheTTL, logger.Component(log, "reports")),
		Dashboard: service.NewDashboardService(holder, service.NewDashboard(billing), nil),
		Quotes:    service.NewQuoteService(holder),
		Costs:     service.NewCostService(holder, mongo.NewCostRepository(db), logger.Component(log, "costs")),
		Snapshots: holder,
		Probes: map[string]handler.Probe{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		JWTSecret: cfg.JWTSecret,
		Log:       logger.Component(log, "http"),
	}

	// --- HTTP ---
	e := api.NewRouter(deps)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Str("price_policy", string(policy)).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// Compile-time checks that the adapters satisfy the snapshot contracts.
var (
	_ snapshot.Loader         = (*mongo.SnapshotRepository)(nil)
	_ snapshot.ChangeNotifier = (*mongo.ChangeNotifier)(nil)
)
