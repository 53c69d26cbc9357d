package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/smartbell/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted on the engine.
type Handlers struct {
	Store     *handlers.StoreHandler
	Dashboard *handlers.DashboardHandler
	Webhook   *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, ginMode string, logger *zap.Logger) *gin.Engine {
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	if h.Store != nil {
		api.GET("/state", h.Store.State)
		api.PUT("/user", h.Store.SetUser)
		api.DELETE("/user", h.Store.ClearUser)

		api.GET("/ranches", h.Store.Ranches)
		api.PUT("/ranches", h.Store.SetRanches)
		api.PUT("/ranches/current", h.Store.SetCurrentRanch)

		api.POST("/onboarding/ranch", h.Store.OnboardRanch)
		api.PUT("/onboarding/step", h.Store.SetOnboardingStep)
		api.POST("/onboarding/complete", h.Store.SetOnboardingComplete)

		api.PUT("/ui/loading", h.Store.SetLoading)

		api.GET("/cattle", h.Store.ListCattle)
		api.PUT("/cattle", h.Store.SetCattle)
		api.POST("/cattle", h.Store.AddCattle)
		api.PATCH("/cattle/:id", h.Store.UpdateCattle)

		api.GET("/tasks", h.Store.ListTasks)
		api.PUT("/tasks", h.Store.SetTasks)
		api.POST("/tasks", h.Store.AddTask)
		api.PATCH("/tasks/:id", h.Store.UpdateTask)
		api.POST("/tasks/:id/complete", h.Store.CompleteTask)
		api.POST("/tasks/:id/cancel", h.Store.CancelTask)

		api.GET("/productions", h.Store.ListProductions)
		api.PUT("/productions", h.Store.SetProductions)
		api.POST("/productions", h.Store.AddProduction)
	}

	if h.Dashboard != nil {
		api.GET("/dashboard", h.Dashboard.Dashboard)
		api.GET("/dashboard/history", h.Dashboard.History)
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized", zap.String("mode", ginMode))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
