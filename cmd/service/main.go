package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	application "marketplace/internal/app"
	"marketplace/internal/entities"
	"marketplace/internal/handlers/rest/deliveries_bulk_post"
	"marketplace/internal/handlers/rest/deliveries_get"
	"marketplace/internal/handlers/rest/delivery_advance_post"
	"marketplace/internal/handlers/rest/delivery_claim_post"
	"marketplace/internal/handlers/rest/delivery_feedback_post"
	"marketplace/internal/handlers/rest/delivery_get"
	"marketplace/internal/handlers/rest/delivery_post"
	"marketplace/internal/handlers/rest/delivery_proof_post"
	"marketplace/internal/handlers/rest/driver_earnings_get"
	"marketplace/internal/handlers/rest/driver_location_put"
	"marketplace/internal/handlers/rest/fee_quote_get"
	"marketplace/internal/handlers/rest/feed_get"
	"marketplace/internal/handlers/rest/healthcheck_head"
	"marketplace/internal/handlers/rest/ping_get"
	"marketplace/internal/handlers/rest/seller_analytics_get"
	"marketplace/internal/handlers/rest/wallet_get"
	"marketplace/internal/handlers/rest/wallet_transactions_get"
	"marketplace/internal/handlers/rest/wallet_withdraw_post"
	"marketplace/internal/pkg/config"
	"marketplace/internal/pkg/dotenv"
	"marketplace/internal/pkg/grpchealth"
	metrics_system "marketplace/internal/pkg/metrics"
	"marketplace/internal/pkg/middlewares/graceful_shutdown"
	"marketplace/internal/pkg/middlewares/metrics"
	"marketplace/internal/pkg/middlewares/rate_limiter"
	"marketplace/internal/pkg/middlewares/session"
	"marketplace/internal/pkg/middlewares/timeout"
	"marketplace/internal/pkg/postgres"
	"marketplace/pkg/logger"
	"marketplace/pkg/logger/zap_adapter"
	"marketplace/pkg/token_bucket"
)

const rateLimiterIdleTTL = 10 * time.Minute

func main() {
	zapLogger, err := zap_adapter.NewZapAdapter(
		zap_adapter.WithLevel(os.Getenv("LOG_LEVEL")),
		zap_adapter.WithService("marketplace"),
	)
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting marketplace application")

	if _, err := os.Stat(".env"); err == nil {
		if err := dotenv.Load(); err != nil {
			mainLog.Error("failed to load .env file", logger.NewField("error", err))
			return
		}
	} else {
		mainLog.Warn("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // Получаю предупреждения от линтера в местах де наследуюсь от context.Background(), хотя это часть gracefull shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	businessApp, cleanup, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}
	defer cleanup()

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	metrics_system.StartSystemMetricsCollector(ongoingCtx, metrics_system.DefaultCollectInterval)

	// изменения в Postgres приходят в ленты через LISTEN/NOTIFY
	listener := postgres.NewListener(log, pool, businessApp.ServiceFeed.Notify,
		entities.ChannelDeliveryChanges,
		entities.ChannelWalletChanges,
	)
	listenerErr := make(chan error, 1)
	go func() {
		defer close(listenerErr)
		if err := listener.Run(ongoingCtx); err != nil {
			listenerErr <- err
		}
	}()

	// SSE потоки закрываются при начале Shutdown, а не по его таймауту
	streamsCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, streamsCtx, log, &isShuttingDown, businessApp, pool, cfg.Server),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second, // feed_get снимает дедлайн для своих потоков
		IdleTimeout:       60 * time.Second,
	}
	server.RegisterOnShutdown(stopStreams)

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	// основной http сервер

	// gRPC health
	healthServer := grpchealth.New(log)
	healthServerErr := make(chan error, 1)
	go func() {
		defer close(healthServerErr)
		if err := healthServer.ListenAndServe(cfg.Server.GRPCHealthPort); err != nil {
			healthServerErr <- err
		}
	}()
	// gRPC health

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}
	// pprof http сервер

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-healthServerErr:
		return fmt.Errorf("grpc health server: %w", err)
	case err := <-listenerErr:
		return fmt.Errorf("postgres listener: %w", err)
	case err := <-pprofServerErr: // if !cfg.Server.PprofEnabled будет nil по умолчанию, и данный кейс будет проигнорирован
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)
	healthServer.SetNotServing()

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)

	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}
	healthServer.Stop()

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	businessApp.BackgroundWorkers.Wait()

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	streamsCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	pool *pgxpool.Pool,
	cfg config.HTTPServer,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.RequestTimeout))
	router.Use(metrics.Middleware(log))
	router.Use(session.Middleware(log))
	router.Use(rate_limiter.Middleware(log, cfg.RateLimiterQPS, token_bucket.NewKeyed(cfg.RateLimiterQPS, float64(cfg.RateLimiterBurst), rateLimiterIdleTTL)))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, pool)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log)).Methods("GET")

	router.Handle("/fee/quote", fee_quote_get.New(log, app.ServiceFee)).Methods("GET")

	router.Handle("/deliveries", deliveries_get.New(log, app.ServiceDelivery)).Methods("GET")
	router.Handle("/deliveries", delivery_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/bulk", deliveries_bulk_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}", delivery_get.New(log, app.ServiceDelivery)).Methods("GET")
	router.Handle("/deliveries/{id}/claim", delivery_claim_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/advance", delivery_advance_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/proof", delivery_proof_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/deliveries/{id}/feedback", delivery_feedback_post.New(log, app.ServiceDelivery)).Methods("POST")
	router.Handle("/drivers/location", driver_location_put.New(log, app.ServiceDelivery)).Methods("PUT")

	router.Handle("/wallet", wallet_get.New(log, app.ServiceWallet)).Methods("GET")
	router.Handle("/wallet/transactions", wallet_transactions_get.New(log, app.ServiceWallet)).Methods("GET")
	router.Handle("/wallet/withdraw", wallet_withdraw_post.New(log, app.ServiceWallet)).Methods("POST")

	router.Handle("/analytics/seller", seller_analytics_get.New(log, app.ServiceDelivery)).Methods("GET")
	router.Handle("/analytics/driver", driver_earnings_get.New(log, app.ServiceDelivery)).Methods("GET")

	feeds := router.PathPrefix("/feed").Subrouter()
	feeds.Use(graceful_shutdown.StreamMiddleware(streamsCtx))
	feeds.Handle("/deliveries/{id}", feed_get.New(log, app.ServiceFeed, feed_get.KindDelivery, feed_get.DefaultHeartbeat)).Methods("GET")
	feeds.Handle("/pending", feed_get.New(log, app.ServiceFeed, feed_get.KindPending, feed_get.DefaultHeartbeat)).Methods("GET")
	feeds.Handle("/mine", feed_get.New(log, app.ServiceFeed, feed_get.KindMine, feed_get.DefaultHeartbeat)).Methods("GET")
	feeds.Handle("/wallet", feed_get.New(log, app.ServiceFeed, feed_get.KindWallet, feed_get.DefaultHeartbeat)).Methods("GET")

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
