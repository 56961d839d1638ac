package api

import (
	"io/fs"
	"net/http"
	"slices"
	"strings"

	"github.com/celerix-dev/phonebook/internal/logger"
	"github.com/celerix-dev/phonebook/internal/phonebook"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterOptions configures NewRouter. The zero value serves the API only,
// with CORS open to every origin.
type RouterOptions struct {
	Logger           *zap.Logger
	MetricsPath      string
	Static           fs.FS
	AllowOrigins     []string
	LogRequestBodies bool
}

// NewRouter assembles the HTTP surface over svc. Request metrics and the
// exposition endpoint use the collector svc was built with, if any.
func NewRouter(svc *phonebook.Service, opts RouterOptions) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := svc.Metrics()

	r := gin.New()
	r.Use(logger.GinMiddleware(log, logger.WithRequestBodies(opts.LogRequestBodies)))
	r.Use(logger.Recovery(log))
	if m != nil {
		r.Use(m.Middleware())
	}
	r.Use(CORS(opts.AllowOrigins))
	r.Use(ErrorHandler())

	h := &Handler{Service: svc}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/persons", h.ListPersons)
		apiGroup.GET("/persons/:id", h.GetPerson)
		apiGroup.POST("/persons", h.CreatePerson)
		apiGroup.PUT("/persons/:id", h.UpdatePerson)
		apiGroup.DELETE("/persons/:id", h.DeletePerson)
		apiGroup.GET("/info", h.InfoJSON)
	}
	r.GET("/info", h.Info)
	r.GET("/health", h.Health)

	if m != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(m.Handler()))
	}

	r.NoRoute(staticFallback(opts.Static))
	return r
}

// CORS answers preflight requests and stamps the allow headers.
// An empty origin list allows every origin.
func CORS(origins []string) gin.HandlerFunc {
	wildcard := len(origins) == 0 || slices.Contains(origins, "*")
	return func(c *gin.Context) {
		if wildcard {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin := c.GetHeader("Origin"); slices.Contains(origins, origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// staticFallback serves the frontend bundle for every path that is not an
// API route, falling back to index.html so client-side routes resolve.
func staticFallback(static fs.FS) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if static == nil || path == "/api" || strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown endpoint"})
			return
		}
		if f, err := static.Open(strings.TrimPrefix(path, "/")); err == nil {
			f.Close()
			http.FileServer(http.FS(static)).ServeHTTP(c.Writer, c.Request)
			return
		}
		c.FileFromFS("/", http.FS(static))
	}
}
