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

	"golang-shopify-warroom/internal/config"
	delivery "golang-shopify-warroom/internal/delivery/http"
	"golang-shopify-warroom/internal/repository"
	"golang-shopify-warroom/internal/service"
	"golang-shopify-warroom/pkg/logger"
	"golang-shopify-warroom/pkg/postgres"
	"golang-shopify-warroom/pkg/redis"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the war room API",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	appLogger.Info("Starting War Room API", logger.StringField("name", cfg.App.Name))

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

	// Initialize Redis so manual analyses publish notification events too
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

	// Initialize repositories
	competitorRepo := repository.NewCompetitorRepository(db.DB)
	priceHistoryRepo := repository.NewPriceHistoryRepository(db.DB)
	analysisRepo := repository.NewMarketAnalysisRepository(db.DB)
	catalogRepo := repository.NewShopifyRepository(cfg, appLogger)

	// Initialize AI provider for the manual trigger endpoint
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
	competitorSvc := service.NewCompetitorService(appLogger, competitorRepo, analyzerSvc)
	dashboardSvc := service.NewDashboardService(appLogger, competitorRepo, priceHistoryRepo, analysisRepo)
	exportSvc := service.NewExportService(appLogger, competitorRepo, priceHistoryRepo, analysisRepo)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")
	competitorsGroup := apiV1.Group("/competitors")

	competitorHandler := delivery.NewCompetitorHandler(competitorSvc, appLogger)
	competitorHandler.RegisterRoutes(competitorsGroup)

	dashboardHandler := delivery.NewDashboardHandler(dashboardSvc, appLogger)
	dashboardHandler.RegisterRoutes(e, competitorsGroup)

	exportHandler := delivery.NewExportHandler(exportSvc, appLogger)
	exportHandler.RegisterRoutes(e, competitorsGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.StringField("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Storefront War Room API
// @version 1.0
// @description Competitive intelligence over storefront catalogs.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api CLI: %s\n", err)
		os.Exit(1)
	}
}
