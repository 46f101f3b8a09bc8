package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reflectlabs/reflective-tutor/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg        *config.Config
	checkpoint *Checkpoint
	quiz       *Quiz
	tutor      *Tutor
	memory     *Memory
	webhook    *Webhook
	auth       echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, checkpoint *Checkpoint, quiz *Quiz, tutor *Tutor, memory *Memory, webhook *Webhook, auth echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:        cfg,
		checkpoint: checkpoint,
		quiz:       quiz,
		tutor:      tutor,
		memory:     memory,
		webhook:    webhook,
		auth:       auth,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	// Webhooks are called by providers, not students: no bearer auth here.
	v1.POST("/webhooks/transcription/:provider/:chapterID", rt.webhook.Transcription)

	authed := v1.Group("", rt.auth)

	chapters := authed.Group("/chapters")
	chapters.POST("/:id/reflection-points", rt.checkpoint.Regenerate)
	chapters.GET("/:id/reflection-points", rt.checkpoint.List)
	chapters.POST("/:id/transcription", rt.checkpoint.RequestTranscription)

	quiz := authed.Group("/quiz")
	quiz.POST("/generate", rt.quiz.Generate)
	quiz.POST("/generate-batch", rt.quiz.GenerateBatch)
	quiz.POST("/evaluate", rt.quiz.Evaluate)
	quiz.POST("/remediation", rt.quiz.Remediation)

	tutorGroup := authed.Group("/tutor")
	tutorGroup.POST("/sessions", rt.tutor.StartSession)
	tutorGroup.POST("/sessions/:id/messages", rt.tutor.Message)

	authed.GET("/memory", rt.memory.Get)
	authed.PATCH("/memory", rt.memory.UpdatePreferences)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
