package api

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/Aidin1998/algohost/common/apiutil"
	apierrors "github.com/Aidin1998/algohost/common/errors"
	"github.com/Aidin1998/algohost/internal/manifest"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	limiter "github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the page templates served by the API.
func Templates() fs.FS {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Invoker runs the service operation for a decoded request body.
type Invoker interface {
	Invoke(ctx context.Context, body map[string]any) (any, error)
}

// Options tune the HTTP surface.
type Options struct {
	// CORSOrigins defaults to all origins.
	CORSOrigins []string
	// RateLimit for POST / in limiter format ("100-M"); empty disables it.
	RateLimit string
	// Version is reported in the OpenAPI document.
	Version string
}

// Server represents the API server
type Server struct {
	router     *gin.Engine
	logger     *zap.Logger
	manifest   *manifest.Manifest
	invoker    Invoker
	view       pageView
	openapi    []byte
	mu         sync.Mutex
	httpServer *http.Server
	closed     bool
}

// NewServer creates the API server for the service described by m.
func NewServer(logger *zap.Logger, m *manifest.Manifest, invoker Invoker, opts Options) (*Server, error) {
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	view, err := newPageView(m, bluemonday.UGCPolicy())
	if err != nil {
		return nil, err
	}

	doc, err := m.OpenAPI(opts.Version)
	if err != nil {
		return nil, err
	}
	openapi, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode openapi document: %w", err)
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	server := &Server{
		logger:   logger,
		manifest: m,
		invoker:  invoker,
		view:     view,
		openapi:  openapi,
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.SetHTMLTemplate(tmpl)

	router.Use(ginzap.CustomRecoveryWithZap(logger, true, apierrors.Recovered))
	router.Use(apiutil.RequestIDMiddleware())
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(otelgin.Middleware(m.ServiceName))
	router.Use(apiutil.MetricsMiddleware())

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", apiutil.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", apiutil.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	var invokeChain []gin.HandlerFunc
	if opts.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
		if err != nil {
			return nil, fmt.Errorf("invalid rate limit %q: %w", opts.RateLimit, err)
		}
		invokeChain = append(invokeChain, ginlimiter.NewMiddleware(
			limiter.New(memory.NewStore(), rate),
			ginlimiter.WithLimitReachedHandler(apierrors.RateLimited),
		))
	}
	invokeChain = append(invokeChain, server.invokeService)

	server.router = router
	server.registerRoutes(invokeChain)
	return server, nil
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes(invokeChain []gin.HandlerFunc) {
	s.router.GET("/", s.serviceForm)
	s.router.POST("/", invokeChain...)
	s.router.OPTIONS("/", s.options)

	s.router.GET("/api", s.apiDocs)
	s.router.GET("/api/openapi.json", s.openAPI)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.NoRoute(apierrors.NotFound)
	s.router.NoMethod(apierrors.MethodNotAllowed)
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves HTTP on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting API server",
		zap.String("addr", addr),
		zap.String("service", s.manifest.ServiceName))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
