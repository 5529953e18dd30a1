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

	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/delivery/consumer"
	delivery "golang-garp-screener/internal/screener/delivery/http"
	"golang-garp-screener/internal/screener/delivery/scheduler"
	"golang-garp-screener/internal/screener/repository"
	"golang-garp-screener/internal/screener/service"
	"golang-garp-screener/pkg/common"
	"golang-garp-screener/pkg/logger"
	"golang-garp-screener/pkg/postgres"
	"golang-garp-screener/pkg/redis"
	"golang-garp-screener/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the screener service (API, queue consumer and schedule)",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Screener Service", logger.StringField("name", cfg.App.Name), logger.StringField("screener", cfg.Screener.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	if err := redisClient.EnsureGroup(ctx, common.RedisStreamScreenerRun, common.RedisStreamGroup); err != nil {
		appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
	}

	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	providers := service.NewProviders(cfg, appLogger, db.DB)
	runRepo := repository.NewScreenerRunRepository(db.DB)

	var related service.RelatedAssetResolver
	if cfg.Screener.RelatedAssets {
		related = service.NewRelatedAssetResolver(providers.History, appLogger)
	}

	// Initialize services
	screenerSvc, err := service.NewScreenerService(cfg, appLogger, providers, runRepo, notifier, related)
	if err != nil {
		appLogger.Fatal("Failed to initialize screener service", logger.ErrorField(err))
	}
	runSvc := service.NewRunService(runRepo, appLogger)
	queueSvc := service.NewRunQueueService(cfg, appLogger, redisClient.Client, screenerSvc, notifier)

	// Start the queue consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, queueSvc, appLogger)
	redisConsumer.Start(ctx)

	// Start the schedule
	if cfg.Screener.Schedule != "" {
		sched, err := scheduler.New(cfg.Screener.Schedule, queueSvc, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize scheduler", logger.ErrorField(err))
		}
		go sched.Start(ctx)
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	runHandler := delivery.NewRunHandler(runSvc, queueSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	runHandler.RegisterRoutes(apiV1.Group("/runs"))

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down screener service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	redisConsumer.Stop()

	appLogger.Info("Screener service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "screener-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-screener.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing screener-service CLI: %s\n", err)
		os.Exit(1)
	}
}
