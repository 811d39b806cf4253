package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"core/internal/bot"
	"core/internal/config"
	"core/internal/conversation"
	"core/internal/handler"
	"core/internal/logger"
	"core/internal/repository"
	"core/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Build information. Populated at build-time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("starting real estate assistant",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	gin.SetMode(cfg.Server.GinMode)

	// Feedback persistence is optional. The recorder interface stays
	// nil unless a DSN is configured, so the dialogue skips recording.
	var recorder conversation.FeedbackRecorder
	var feedbackRepo *repository.FeedbackRepository
	if cfg.Database.DSN != "" {
		feedbackRepo, err = repository.NewFeedbackRepository(
			cfg.Database.DSN,
			cfg.Database.MaxConnections,
			cfg.Database.MaxIdleConnections,
		)
		if err != nil {
			zl.Fatal("failed to initialize feedback repository", zap.Error(err))
		}
		defer feedbackRepo.Close()
		recorder = feedbackRepo
		zl.Info("feedback recording enabled")
	}

	openaiClient := service.NewOpenAIClient(&cfg.OpenAI)
	synthesizer, err := service.NewSynthesizer(
		openaiClient,
		cfg.OpenAI.Model,
		cfg.RealEstate.SearchBaseURL,
		cfg.RealEstate.FeedBaseURL,
		zl,
	)
	if err != nil {
		zl.Fatal("failed to initialize synthesizer", zap.Error(err))
	}
	feedClient := service.NewFeedClient(cfg.RealEstate.FetchTimeout, zl)
	searchService := service.NewSearchService(synthesizer, feedClient, zl)
	formatter := service.NewFormatter(cfg.Maps.APIKey, cfg.RealEstate.ItemBaseURL)

	manager := conversation.NewManager(searchService, formatter, recorder, zl)

	tgBot, err := bot.New(&cfg.Telegram, manager, zl)
	if err != nil {
		zl.Fatal("failed to initialize telegram bot", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.Server.AllowedOrigins},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	searchHandler := handler.NewSearchHandler(searchService)
	api := router.Group("/api/v1")
	{
		api.POST("/search", searchHandler.Search)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	go func() {
		zl.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("http server failed", zap.Error(err))
		}
	}()

	go tgBot.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	cancel()
	if err := srv.Shutdown(context.Background()); err != nil {
		zl.Error("http server shutdown failed", zap.Error(err))
	}
}
