package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "github.com/adamanr/portal_service/internal/api/grpc"
	httpapi "github.com/adamanr/portal_service/internal/api/http"
	"github.com/adamanr/portal_service/internal/config"
	"github.com/adamanr/portal_service/internal/controllers"
	"github.com/adamanr/portal_service/internal/database"
	"github.com/adamanr/portal_service/internal/metrics"
	"github.com/adamanr/portal_service/internal/scheduler"
	"github.com/adamanr/portal_service/internal/sse"
	logging "github.com/adamanr/portal_service/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthInterval = 15 * time.Second

func main() {
	bootLogger := slog.New(logging.NewCustomHandler(os.Stdout, io.Discard, slog.LevelInfo))

	cfg, err := config.GetConfig(config.DefaultPath, bootLogger)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "server.log"
	}
	logger := logging.SetupLogger(os.Stdout, logFile, logging.ParseLevel(cfg.Log.Level))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pools, err := database.NewPools(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pools.Close()

	if cfg.Database.AutoMigrate {
		if err = database.Migrate(ctx, pools.Post, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	rdb, err := database.NewRedisConn(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rdb.Close()

	metrics.Register(prometheus.DefaultRegisterer)

	hub := sse.NewHub(logger)
	deps := &controllers.Dependens{
		DB:       pools.Get,
		WriteDB:  pools.Post,
		Redis:    rdb,
		Logger:   logger,
		Config:   cfg,
		Validate: validator.New(),
	}
	ctrls := controllers.NewControllers(deps, hub)

	checker := grpcapi.NewHealthChecker(logger, map[string]grpcapi.Pinger{
		"postgres_get":  pools.Get,
		"postgres_post": pools.Post,
		"redis":         grpcapi.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	})
	go checker.Run(ctx, healthInterval)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logging.Middleware(logger))
	r.Use(metrics.Middleware)
	r.Handle("/metrics", promhttp.Handler())

	httpapi.NewServer(deps, ctrls, ctrls.AuthController, hub, checker).Routes(r)

	// No WriteTimeout: notification streams stay open indefinitely.
	s := &http.Server{
		Handler:           r,
		Addr:              cfg.Server.Host,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	grpcServer := grpcapi.NewServer(checker)
	if cfg.Server.GRPCAddr != "" {
		lis, lisErr := net.Listen("tcp", cfg.Server.GRPCAddr)
		if lisErr != nil {
			logger.Error("Failed to listen for gRPC", slog.String("error", lisErr.Error()))
			os.Exit(1)
		}

		go func() {
			logger.Info("gRPC health server is starting", slog.String("address", cfg.Server.GRPCAddr))
			if serveErr := grpcServer.Serve(lis); serveErr != nil {
				logger.Error("gRPC server stopped", slog.String("error", serveErr.Error()))
			}
		}()
	}

	retention, err := scheduler.NewRetention(cfg.Retention.Schedule, ctrls.ActivityLogController, logger)
	if err != nil {
		os.Exit(1)
	}
	retention.Start()

	go func() {
		logger.Info("Server is starting", slog.String("address", cfg.Server.Host))
		if serveErr := s.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", slog.String("error", serveErr.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = s.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", slog.String("error", err.Error()))
	}
	grpcServer.GracefulStop()
	retention.Stop()
}
