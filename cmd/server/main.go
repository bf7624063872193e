package main

import (
	"careerpilot/internal/cache"
	"careerpilot/internal/config"
	"careerpilot/internal/repository"
	"careerpilot/internal/service"
	"careerpilot/internal/transport/rest"
	"careerpilot/internal/transport/ws"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Answer Eval:  %s", aiConfig.Models.AnswerEval)
	log.Printf("  Session Eval: %s", aiConfig.Models.SessionEval)
	log.Printf("  Question Gen: %s", aiConfig.Models.QuestionGen)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:      configured ✓")
	} else {
		log.Println("  API Key:      NOT SET (using heuristic evaluator)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	interviewRepo := repository.NewInterviewRepo(db)
	intelligenceRepo := repository.NewIntelligenceRepo(db)

	// One summary row per user, even under concurrent rebuilds
	if err := intelligenceRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to create intelligence indexes:", err)
	}

	// Initialize cache
	intelligenceCache := cache.NewIntelligenceCache(rdb, cfg.CacheTTL)

	// Initialize services
	gemini := service.NewGeminiService(aiConfig)
	authSvc := service.NewAuthService(userRepo, interviewRepo, intelligenceRepo, intelligenceCache, cfg.JWTSecret)
	intelligenceSvc := service.NewIntelligenceService(interviewRepo, intelligenceRepo, intelligenceCache)
	intelligenceSvc.SetBroadcaster(wsHub)
	analyticsSvc := service.NewAnalyticsService(interviewRepo, intelligenceCache)
	interviewSvc := service.NewInterviewService(interviewRepo, gemini, gemini, intelligenceSvc)

	// Create router with container
	container := &rest.Container{
		AuthService:         authSvc,
		InterviewService:    interviewSvc,
		IntelligenceService: intelligenceSvc,
		AnalyticsService:    analyticsSvc,
		WSHub:               wsHub,
		CORSOrigins:         cfg.CORSOrigins,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /api/auth/register")
		log.Println("  POST /api/auth/login")
		log.Println("  POST/GET /api/interviews")
		log.Println("  POST /api/interviews/{id}/answers")
		log.Println("  POST /api/interviews/{id}/complete")
		log.Println("  GET  /api/career-intelligence")
		log.Println("  POST /api/career-intelligence/rebuild")
		log.Println("  GET  /api/analytics")
		log.Println("  WS  /api/ws/dashboard")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
