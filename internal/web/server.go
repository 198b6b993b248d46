package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/spacesedan/reviewcloud/internal/analysis"
	"github.com/spacesedan/reviewcloud/internal/monitoring"
	"github.com/spacesedan/reviewcloud/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

type Config struct {
	MaxUploadBytes int64
}

// Server is the browser UI. Every request runs on its own; the store is
// the only state shared between requests.
type Server struct {
	service *analysis.Service
	store   store.Store
	metrics *monitoring.Metrics
	// taggerHealthy is nil when the built-in tagger is used.
	taggerHealthy *atomic.Bool
	cfg           Config
}

func NewServer(service *analysis.Service, st store.Store, metrics *monitoring.Metrics, taggerHealthy *atomic.Bool, cfg Config) *Server {
	return &Server{
		service:       service,
		store:         st,
		metrics:       metrics,
		taggerHealthy: taggerHealthy,
		cfg:           cfg,
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"comma":       func(n int) string { return humanize.Comma(int64(n)) },
		"inc":         func(i int) int { return i + 1 },
		"cloudFile":   analysis.CloudFileName,
		"keywordFile": analysis.KeywordFileName,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.MaxMultipartMemory = s.cfg.MaxUploadBytes
	router.SetHTMLTemplate(template.Must(
		template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html"),
	))

	router.GET("/", s.index)
	router.POST("/uploads", s.upload)
	router.POST("/uploads/:id/runs", s.run)
	router.GET("/runs/:id/files/:name", s.download)
	router.GET("/healthz", s.healthz)
	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.FullPath() == "/healthz" || c.FullPath() == "/metrics" {
			return
		}
		slog.Info("[Web] Request handled",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) healthz(c *gin.Context) {
	tagger := "builtin"
	status := http.StatusOK
	if s.taggerHealthy != nil {
		tagger = "healthy"
		if !s.taggerHealthy.Load() {
			tagger = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "tagger": tagger})
}
