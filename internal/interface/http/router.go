package http

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yanqian/faq-matcher/internal/infra/config"
)

const requestIDHeader = "X-Request-ID"

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	if cfg.HTTP.Production {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	router.Use(
		gin.Recovery(),
		requestID(),
		otelgin.Middleware(cfg.ServiceName),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowOrigins),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
	)

	router.GET("/", handler.Index)
	router.POST("/", handler.Ask)
	router.GET("/get_test_question/:index", handler.TestQuestion)
	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/compare", handler.Compare)
		api.GET("/faqs", handler.FAQs)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address(),
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"request_id", c.GetString("request_id"))
	}
}
