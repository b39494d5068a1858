package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/delivery/consumer"
	"golang-shopify-warroom/internal/repository"
	"golang-shopify-warroom/internal/service"
	"golang-shopify-warroom/pkg/common"
	"golang-shopify-warroom/pkg/logger"
	"golang-shopify-warroom/pkg/postgres"
	"golang-shopify-warroom/pkg/redis"
	"golang-shopify-warroom/pkg/telegram"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the analysis worker",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = godotenv.Load()

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

	appLogger.Info("Starting Analysis Worker", logger.StringField("name", cfg.App.Name))

	// Initialize database
	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Create the consumer group if it doesn't exist.
	// MKSTREAM creates the stream if it doesn't exist.
	if err := redisClient.XGroupCreateMkStream(context.Background(), common.RedisStreamMarketAnalysis, common.RedisStreamGroup, "0").Err(); err != nil {
		if err.Error() != "BUSYGROUP Consumer Group name already exists" {
			appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	competitorRepo := repository.NewCompetitorRepository(db.DB)
	priceHistoryRepo := repository.NewPriceHistoryRepository(db.DB)
	analysisRepo := repository.NewMarketAnalysisRepository(db.DB)
	catalogRepo := repository.NewShopifyRepository(cfg, appLogger)

	// Initialize AI provider
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini AI repository", logger.ErrorField(err))
		}
	case "openrouter":
		aiRepo, err = repository.NewOpenRouterRepository(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize OpenRouter repository", logger.ErrorField(err))
		}
	default:
		aiRepo, err = repository.NewGroqAIRepository(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize Groq AI repository", logger.ErrorField(err))
		}
	}

	// Initialize services
	analyzerSvc := service.NewAnalyzerService(cfg, appLogger, catalogRepo, priceHistoryRepo, analysisRepo, aiRepo, redisClient.Client)
	workerSvc, err := service.NewWorkerService(cfg, appLogger, competitorRepo, analyzerSvc)
	if err != nil {
		appLogger.Fatal("Failed to initialize worker service", logger.ErrorField(err))
	}

	// Start the Telegram notifier consumer when enabled
	var notifierConsumer *consumer.NotifierConsumer
	if cfg.Telegram.Enabled {
		telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
		notifierConsumer = consumer.NewNotifierConsumer(redisClient.Client, telegramNotifier, appLogger)
		notifierConsumer.Start(ctx)
	}

	go workerSvc.Start(ctx)

	appLogger.Info("Analysis worker started")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down analysis worker...")
	cancel()
	if notifierConsumer != nil {
		notifierConsumer.Stop()
	}
	appLogger.Info("Analysis worker stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "worker"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-worker.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing worker CLI: %s\n", err)
		os.Exit(1)
	}
}
