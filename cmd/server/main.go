package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/coach"
	"github.com/Skufu/heartcheck/internal/config"
	"github.com/Skufu/heartcheck/internal/httpapi"
	"github.com/Skufu/heartcheck/internal/importer"
	"github.com/Skufu/heartcheck/internal/logger"
	"github.com/Skufu/heartcheck/internal/store"
)

const serviceName = "heartcheck"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, serviceName)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			ServerName:  serviceName,
			Environment: cfg.GinMode,
		}); err != nil {
			lg.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()
	var (
		db   httpapi.HealthChecker
		repo store.AssessmentRepository
	)
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			lg.Fatal("database connection failed", zap.Error(err))
		}
		defer pool.Close()

		if err := store.EnsureSchema(ctx, pool, cfg.AssessmentsTable); err != nil {
			lg.Fatal("schema setup failed", zap.Error(err))
		}
		repo, err = store.NewAssessmentRepoPG(pool, cfg.AssessmentsTable)
		if err != nil {
			lg.Fatal("repository setup failed", zap.Error(err))
		}
		db = pool
	} else {
		lg.Info("database disabled; assessments will not be persisted")
	}

	im := importer.New(importer.NewFetcher(cfg.FetchTimeout, cfg.MaxUploadBytes, lg), lg)
	chat := coach.NewClient(cfg.ChatAPIURL, cfg.OpenAIAPIKey, cfg.ChatModel, cfg.ChatTimeout, lg)
	if !chat.Enabled() {
		lg.Info("OPENAI_API_KEY not set; /api/chat disabled")
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		CORSOrigins:    cfg.CORSOrigins,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		MaxUploadBytes: cfg.MaxUploadBytes,
		JWTSecret:      cfg.JWTSecret,
	}, db, httpapi.NewHandler(im, repo, chat, lg), lg)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + cfg.ChatTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	lg.Info("server listening", zap.String("addr", server.Addr), zap.Bool("db", cfg.EnableDB))
	waitForShutdown(server, lg)
}

func connectDB(ctx context.Context, url string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func waitForShutdown(server *http.Server, lg *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	lg.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}
