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

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/reflectlabs/reflective-tutor/pkg/validator"

	"github.com/reflectlabs/reflective-tutor/internal/adapter/handler"
	"github.com/reflectlabs/reflective-tutor/internal/adapter/repository"
	"github.com/reflectlabs/reflective-tutor/internal/infrastructure/cache"
	"github.com/reflectlabs/reflective-tutor/internal/infrastructure/database"
	httpmw "github.com/reflectlabs/reflective-tutor/internal/infrastructure/http/middleware"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/checkpoint"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/memory"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/quiz"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/transcript"
	"github.com/reflectlabs/reflective-tutor/internal/usecase/tutor"
	"github.com/reflectlabs/reflective-tutor/pkg/config"
	"github.com/reflectlabs/reflective-tutor/pkg/jwt"
	"github.com/reflectlabs/reflective-tutor/pkg/llm"
	"github.com/reflectlabs/reflective-tutor/pkg/search"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping GORM AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	transcriptRepo := repository.NewTranscriptRepository(db)
	pointRepo := repository.NewReflectionPointRepository(db)
	memoryRepo := repository.NewLearningMemoryRepository(db)

	// Initialize external clients
	log.Println("🤖 Initializing generation and search clients...")
	completer := llm.NewClient(&cfg.Groq)
	searcher := search.NewClient(&cfg.Serper)

	var fetcher transcript.TranscriptFetcher
	if cfg.AssemblyAI.APIKey != "" {
		aaiClient := aai.NewClient(cfg.AssemblyAI.APIKey)
		fetcher = aaiClient.Transcripts
		log.Println("✅ Transcription provider configured")
	} else {
		log.Println("⚠️  ASSEMBLYAI_API_KEY not set; transcription requests will be rejected")
	}

	// Initialize services
	log.Println("⚙️  Initializing services...")
	transcriptService := transcript.NewService(transcriptRepo, fetcher, cfg, logger)
	extractor := checkpoint.NewSemanticExtractor(completer, cfg.Groq.DefaultModel)
	checkpointService := checkpoint.NewService(transcriptRepo, pointRepo, extractor, logger)
	memoryService := memory.NewService(memoryRepo, logger)

	models := quiz.Models{Default: cfg.Groq.DefaultModel, Fallback: cfg.Groq.FallbackModel}
	generator := quiz.NewGenerator(completer, memoryService, models, logger)
	evaluator := quiz.NewEvaluator(completer, memoryService, models, logger)
	remediator := quiz.NewRemediator(completer, cfg.Groq.DefaultModel, logger)

	sessionStore := tutor.NewRedisSessionStore(redisClient, tutor.DefaultSessionTTL)
	tutorService := tutor.NewService(sessionStore, completer, searcher, cfg.Groq.DefaultModel, logger)

	// Initialize JWT manager
	log.Println("🔑 Initializing JWT manager...")
	jwtManager := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.AccessExpiry)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	checkpointHandler := handler.NewCheckpoint(checkpointService, transcriptService, logger)
	quizHandler := handler.NewQuiz(generator, evaluator, remediator, memoryService, logger)
	tutorHandler := handler.NewTutor(tutorService, logger)
	memoryHandler := handler.NewMemory(memoryService, logger)
	webhookHandler := handler.NewWebhook(transcriptService, cfg.AssemblyAI.WebhookSecret, logger)

	authEchoMW := httpmw.EchoAuth(jwtManager)

	router := handler.NewRouter(cfg, checkpointHandler, quizHandler, tutorHandler, memoryHandler, webhookHandler, authEchoMW)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
