package http

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/authguard/internal/apipaths"
	"github.com/authguard/internal/constants"
	"github.com/authguard/internal/logger"
)

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	authPath := s.config.Routes.AuthPath

	// Health check endpoint (no auth required)
	s.engine.GET(apipaths.Health, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": constants.ServiceName,
		})
	})

	api := s.engine.Group(apipaths.APIPrefix)
	api.Use(s.getAuthMiddleware())
	{
		api.GET(apipaths.MeRelative, s.getCurrentUser)
		if s.stats != nil {
			api.GET(apipaths.SystemStatsRelative, s.getSystemStats)
		}
	}

	// Auth page and its form endpoints. go-pkgz handlers are mounted under the
	// same prefix; the page's own actions are dispatched first.
	s.engine.GET(authPath, s.authPage)
	s.engine.Any(authPath+"/*path", s.authRoutes())

	// Serve frontend static files
	s.engine.Static("/assets", filepath.Join(s.config.StaticDir, "assets"))
	s.engine.NoRoute(s.guardedPage)
}

// authRoutes dispatches sign-in, sign-up and logout, then hands the rest to
// go-pkgz/auth (e.g. /auth/local/login for API clients)
func (s *Server) authRoutes() gin.HandlerFunc {
	var goPkgz gin.HandlerFunc
	if s.authService != nil {
		authHandler, _ := s.authService.Handlers()
		goPkgz = wrapAuthHandler(authHandler, s.config.Routes.AuthPath)
	}

	return func(c *gin.Context) {
		switch sub := c.Param("path"); {
		case sub == "/" && c.Request.Method == http.MethodGet:
			c.Redirect(http.StatusMovedPermanently, s.config.Routes.AuthPath)
		case sub == apipaths.SignIn && c.Request.Method == http.MethodPost:
			s.signIn(c)
		case sub == apipaths.SignUp && c.Request.Method == http.MethodPost:
			s.signUp(c)
		case sub == apipaths.Logout:
			s.logout(c)
		case goPkgz != nil:
			goPkgz(c)
		default:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		}
	}
}

// getCurrentUser returns the authenticated user info
func (s *Server) getCurrentUser(c *gin.Context) {
	if s.authService == nil {
		c.JSON(http.StatusOK, gin.H{"id": "anonymous", "name": "anonymous"})
		return
	}

	user, exists := getUserFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "Not authenticated",
			Details: "Please sign in to continue",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   user.ID,
		"name": user.Name,
	})
}

// getSystemStats returns a host and account snapshot
func (s *Server) getSystemStats(c *gin.Context) {
	stats, err := s.stats.GetSystemStats(c.Request.Context())
	if err != nil {
		s.log.Error("failed to collect system stats", logger.Err(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to collect system stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// wrapAuthHandler wraps an http.Handler for use with Gin, stripping the prefix
// go-pkgz/auth expects paths relative to where it's mounted
func wrapAuthHandler(handler http.Handler, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		originalPath := c.Request.URL.Path
		c.Request.URL.Path = strings.TrimPrefix(originalPath, prefix)

		handler.ServeHTTP(c.Writer, c.Request)

		c.Request.URL.Path = originalPath
	}
}
