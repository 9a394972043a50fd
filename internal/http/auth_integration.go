package http

import (
	"context"
	"crypto/sha1"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/auth"
	"github.com/go-pkgz/auth/avatar"
	"github.com/go-pkgz/auth/provider"
	"github.com/go-pkgz/auth/token"

	"github.com/authguard/internal/config"
	"github.com/authguard/internal/constants"
	"github.com/authguard/internal/domain"
	"github.com/authguard/internal/logger"
	"github.com/authguard/internal/session"
)

// initAuthService initializes go-pkgz/auth with a username/password provider
func initAuthService(cfg *config.Config, users domain.UserService, log *logger.Logger) *auth.Service {
	baseURL := strings.TrimSuffix(cfg.Auth.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost"
	}

	opts := auth.Opts{
		SecretReader: token.SecretFunc(func(string) (string, error) {
			return cfg.Auth.JWTSecret, nil
		}),
		TokenDuration:  constants.TokenDuration,
		CookieDuration: constants.CookieDuration,
		Issuer:         cfg.Auth.Issuer,
		URL:            baseURL + cfg.Routes.AuthPath,
		AvatarStore:    avatar.NewNoOp(),
		SecureCookies:  cfg.Auth.SecureCookie,
		DisableXSRF:    true, // forms post same-origin, API clients send X-JWT
		Validator: token.ValidatorFunc(func(_ string, claims token.Claims) bool {
			if claims.User == nil {
				log.Warn("JWT validation failed: no user in claims")
				return false
			}
			return true
		}),
	}

	authService := auth.NewService(opts)
	authService.AddDirectProvider(constants.LocalProvider, credChecker(users, log))

	return authService
}

// credChecker adapts Authenticate to the direct provider. Wrong credentials are
// a plain rejection; only infrastructure failures surface as errors.
func credChecker(users domain.UserService, log *logger.Logger) provider.CredChecker {
	return provider.CredCheckerFunc(func(user, password string) (bool, error) {
		_, err := users.Authenticate(context.Background(), user, password)
		switch {
		case err == nil:
			return true, nil
		case domain.IsCredentialsError(err), domain.IsValidationError(err):
			log.Info("sign-in rejected", logger.Properties{"username": user})
			return false, nil
		default:
			return false, err
		}
	})
}

// localUser is the token identity the direct provider issues for username
func localUser(username string) *token.User {
	return &token.User{
		ID:   constants.LocalProvider + "_" + token.HashID(sha1.New(), username),
		Name: username,
	}
}

// issueToken sets the JWT cookie for username on w
func (s *Server) issueToken(w http.ResponseWriter, username string) error {
	if s.authService == nil {
		return nil
	}
	if _, err := s.authService.TokenService().Set(w, token.Claims{User: localUser(username)}); err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

// requestState derives the auth state of one request from what the trace
// middleware attached to it, so pages and /api/me agree on expiry, refresh
// and validation. A request carries no pending check, so it is never loading.
func (s *Server) requestState(r *http.Request) session.AuthState {
	if s.authService == nil {
		return session.StateAuthenticated
	}
	if _, err := token.GetUserInfo(r); err == nil {
		return session.StateAuthenticated
	}
	return session.StateAnonymous
}

// traceMiddleware runs go-pkgz Trace so handlers can read token.GetUserInfo
// when a valid token is present, without requiring one. Trace also refreshes
// an expired token while its cookie is still alive.
func traceMiddleware(authService *auth.Service) gin.HandlerFunc {
	authMiddleware := authService.Middleware()
	return func(c *gin.Context) {
		authMiddleware.Trace(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			c.Request = r
		})).ServeHTTP(c.Writer, c.Request)
		c.Next()
	}
}

// getAuthMiddleware returns a Gin middleware that requires authentication
func (s *Server) getAuthMiddleware() gin.HandlerFunc {
	if s.authService == nil {
		// Auth disabled - allow all requests
		return func(c *gin.Context) {
			c.Next()
		}
	}

	authMiddleware := s.authService.Middleware()

	return func(c *gin.Context) {
		var userInfo token.User
		var authenticated bool

		handler := authMiddleware.Auth(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			if u, err := token.GetUserInfo(r); err == nil {
				userInfo = u
				authenticated = true
			}
			c.Request = r
		}))

		// go-pkgz writes a text/plain 401 itself; capture it and answer in JSON
		rec := &discardWriter{header: http.Header{}}
		handler.ServeHTTP(rec, c.Request)

		if !authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}

		c.Set("user", userInfo)
		c.Next()
	}
}

// getUserFromContext extracts the authenticated user from context
func getUserFromContext(c *gin.Context) (token.User, bool) {
	if user, exists := c.Get("user"); exists {
		if u, ok := user.(token.User); ok {
			return u, true
		}
	}
	return token.User{}, false
}

// discardWriter swallows whatever the wrapped go-pkgz handler writes
type discardWriter struct {
	header http.Header
	status int
}

func (w *discardWriter) Header() http.Header         { return w.header }
func (w *discardWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *discardWriter) WriteHeader(status int)      { w.status = status }
