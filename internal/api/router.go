package api

import (
	"net/http"
	"time"

	"facultysite/internal"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// RouterConfig holds HTTP surface settings
type RouterConfig struct {
	CORSOrigins []string
	Gatherer    prometheus.Gatherer
	Events      *RefreshHub
}

// NewRouter wires the faculty routes, metrics and CORS into one handler
func NewRouter(h *FacultyHandler, cfg RouterConfig, logger *internal.Logger) http.Handler {
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/health", h.Health)

	api := router.Group("/api")
	api.GET("/faculty", h.ListFaculty)
	api.GET("/faculty/:id", h.GetFaculty)
	api.POST("/refresh", h.Refresh)
	api.GET("/refresh", h.Refresh)
	if cfg.Events != nil {
		api.GET("/refresh/events", cfg.Events.Stream)
	}

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", SecretHeader, "If-None-Match"},
		ExposedHeaders: []string{"ETag"},
	}).Handler(router)
}

func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("[HTTP] %s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}
