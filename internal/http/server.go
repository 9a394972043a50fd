package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/auth"
	"golang.org/x/sync/errgroup"

	"github.com/authguard/internal/config"
	"github.com/authguard/internal/domain"
	"github.com/authguard/internal/logger"
	"github.com/authguard/internal/system"
)

// Server wraps the HTTP server
type Server struct {
	config      *config.Config
	users       domain.UserService
	engine      *gin.Engine
	authService *auth.Service
	stats       *system.Collector
	log         *logger.Logger
}

// Option configures a Server
type Option func(*Server)

// WithSystemStats serves host stats to signed-in users
func WithSystemStats(c *system.Collector) Option {
	return func(s *Server) {
		s.stats = c
	}
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, users domain.UserService, log *logger.Logger, opts ...Option) *Server {
	// Set Gin mode based on environment
	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	// Middleware - order matters
	engine.Use(securityHeadersMiddleware())
	engine.Use(corsMiddleware(cfg))
	engine.Use(cacheControlMiddleware(cfg.Routes.AuthPath))
	engine.Use(loggerMiddleware(log))
	engine.Use(jsonBodyLimitMiddleware(maxBodySize))

	// Initialize auth service
	var authService *auth.Service
	if cfg.Auth.Enabled {
		authService = initAuthService(cfg, users, log)
		engine.Use(traceMiddleware(authService))
	}

	// Request body size limit
	engine.MaxMultipartMemory = maxBodySize
	engine.SetHTMLTemplate(template.Must(template.New("pages").Parse(pageTemplates)))

	server := &Server{
		config:      cfg,
		users:       users,
		engine:      engine,
		authService: authService,
		log:         log,
	}
	for _, opt := range opts {
		opt(server)
	}

	server.setupRoutes()

	return server
}

// Handler exposes the engine for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

const (
	maxBodySize     = 1 << 20 // 1MB; forms and JSON bodies are small
	readTimeout     = 30 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Run starts the HTTP server and shuts it down gracefully when ctx is done
func (s *Server) Run(ctx context.Context) error {
	addr := s.config.ServerAddress()

	// Configure server with timeouts
	server := &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server listening", logger.Properties{"addr": addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("server shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// securityHeadersMiddleware adds security-related HTTP headers
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Prevent MIME type sniffing
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		// Prevent clickjacking
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		if c.Request.TLS != nil {
			c.Writer.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// corsMiddleware adds CORS headers with configurable origin
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range cfg.CORS.AllowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-JWT")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// cacheControlMiddleware keeps auth-dependent responses out of caches
func cacheControlMiddleware(authPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		switch {
		case strings.HasPrefix(path, "/assets/"):
			// Hashed build output
			c.Writer.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case strings.HasPrefix(path, "/api/"), strings.HasPrefix(path, authPath):
			c.Writer.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			c.Writer.Header().Set("Pragma", "no-cache")
			c.Writer.Header().Set("Expires", "0")
		default:
			// Guarded pages redirect differently per session
			c.Writer.Header().Set("Cache-Control", "no-store")
			c.Writer.Header().Set("Vary", "Cookie")
		}

		c.Next()
	}
}

// jsonBodyLimitMiddleware limits the size of JSON request bodies
func jsonBodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodOptions {
			contentType := c.GetHeader("Content-Type")
			if strings.Contains(contentType, "application/json") {
				if c.Request.ContentLength > maxBytes {
					c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResponse{
						Error: "Request body too large",
					})
					return
				}
				c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
			}
		}
		c.Next()
	}
}

// loggerMiddleware logs HTTP requests once they complete
func loggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		props := logger.Properties{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": c.ClientIP(),
		}
		if loc := c.Writer.Header().Get("Location"); loc != "" {
			props["location"] = loc
		}
		log.Info("HTTP request", props)
	}
}
