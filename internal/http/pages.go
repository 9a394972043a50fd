package http

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/auth/token"

	"github.com/authguard/internal/apipaths"
	"github.com/authguard/internal/authpage"
	"github.com/authguard/internal/domain"
	"github.com/authguard/internal/guard"
	"github.com/authguard/internal/httputil"
	"github.com/authguard/internal/logger"
	"github.com/authguard/internal/navigation"
	"github.com/authguard/internal/session"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// authPageData feeds the "auth" template
type authPageData struct {
	View   *authpage.View
	Action string
	Error  string
	Base   string
}

// runGuard evaluates the redirect guard for this request. It reports true
// when the response has been written (a redirect or the loading view).
func (s *Server) runGuard(c *gin.Context, state session.AuthState, nav *navigation.ResponseNavigator) bool {
	g := guard.New(
		session.Static(state),
		navigation.NewRequestRouter(c.Request),
		nav,
		guard.WithAuthPath(s.config.Routes.AuthPath),
		guard.WithHomePath(s.config.Routes.HomePath),
		guard.WithLogger(s.log),
	)
	g.Start()
	defer g.Stop()

	if nav.Navigated() {
		c.Abort()
		return true
	}
	if g.View() == guard.ViewLoading {
		c.HTML(http.StatusOK, "loading", nil)
		c.Abort()
		return true
	}
	return false
}

func (s *Server) newAuthPage(state session.AuthState, nav navigation.Navigator, search authpage.Search) *authpage.Page {
	return authpage.New(session.Static(state), nav, search,
		authpage.WithPaths(s.config.Routes.AuthPath, s.config.Routes.HomePath),
		authpage.WithLogger(s.log),
	)
}

// authPage renders the sign-in/sign-up tabs
func (s *Server) authPage(c *gin.Context) {
	state := s.requestState(c.Request)
	nav := navigation.NewResponseNavigator(c.Writer, c.Request)
	if s.runGuard(c, state, nav) {
		return
	}

	page := s.newAuthPage(state, nav, authpage.ParseSearch(c.Request.URL.Query()))
	page.Start()
	defer page.Stop()
	if nav.Navigated() {
		c.Abort()
		return
	}

	s.renderAuthPage(c, http.StatusOK, page.View(), "")
}

func (s *Server) renderAuthPage(c *gin.Context, status int, view *authpage.View, errMsg string) {
	if view == nil {
		c.Status(status)
		return
	}
	action := apipaths.SignIn
	if view.ActiveTab == authpage.ModeSignUp {
		action = apipaths.SignUp
	}
	c.HTML(status, "auth", authPageData{
		View:   view,
		Action: apipaths.AuthAction(s.config.Routes.AuthPath, action),
		Error:  errMsg,
		Base:   s.config.Routes.AuthPath,
	})
}

// signIn checks the submitted credentials and issues the session cookie
func (s *Server) signIn(c *gin.Context) {
	s.submitForm(c, authpage.ModeSignIn, func(req domain.RegisterRequest) error {
		_, err := s.users.Authenticate(c.Request.Context(), req.Username, req.Password)
		return err
	})
}

// signUp registers the account and signs it in
func (s *Server) signUp(c *gin.Context) {
	s.submitForm(c, authpage.ModeSignUp, func(req domain.RegisterRequest) error {
		_, err := s.users.Register(c.Request.Context(), req)
		return err
	})
}

// submitForm runs one of the two forms. Success leaves for home through the
// auth page; failure re-renders the same tab with the error.
func (s *Server) submitForm(c *gin.Context, mode authpage.Mode, action func(domain.RegisterRequest) error) {
	state := s.requestState(c.Request)
	nav := navigation.NewResponseNavigator(c.Writer, c.Request)
	if s.runGuard(c, state, nav) {
		return
	}

	req, err := httputil.BindCredentials(c)
	if err != nil {
		s.formError(c, mode, domain.WrapValidationError("form", err))
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	if err := action(req); err != nil {
		s.formError(c, mode, err)
		return
	}
	if err := s.issueToken(c.Writer, req.Username); err != nil {
		s.formError(c, mode, err)
		return
	}

	if httputil.WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"name": req.Username})
		return
	}
	s.newAuthPage(state, nav, authpage.Search{Mode: mode}).Succeed()
	c.Abort()
}

func (s *Server) formError(c *gin.Context, mode authpage.Mode, err error) {
	status, msg := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("auth form failed", logger.Err(err), logger.Properties{"mode": mode.String()})
	}

	if httputil.WantsJSON(c) {
		c.JSON(status, ErrorResponse{Error: msg})
		return
	}
	view := s.newAuthPage(session.StateAnonymous, nil, authpage.Search{Mode: mode}).View()
	s.renderAuthPage(c, status, view, msg)
}

// errorStatus maps domain errors to a status and a client-safe message
func errorStatus(err error) (int, string) {
	var domainErr *domain.DomainError
	msg := "Internal server error"
	if errors.As(err, &domainErr) {
		msg = domainErr.PublicMessage()
	}

	switch {
	case domain.IsValidationError(err):
		return http.StatusBadRequest, msg
	case domain.IsCredentialsError(err):
		return http.StatusUnauthorized, msg
	case domain.IsConflictError(err):
		return http.StatusConflict, msg
	case domain.IsNotFoundError(err):
		return http.StatusNotFound, msg
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// logout clears the session cookie and returns to the auth page
func (s *Server) logout(c *gin.Context) {
	if s.authService != nil {
		s.authService.TokenService().Reset(c.Writer)
	}
	nav := navigation.NewResponseNavigator(c.Writer, c.Request)
	nav.Navigate(navigation.Request{To: s.config.Routes.AuthPath, Replace: true})
	c.Abort()
}

// guardedPage serves every other page through the redirect guard
func (s *Server) guardedPage(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}
	if strings.HasPrefix(c.Request.URL.Path, apipaths.APIPrefix+"/") {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	state := s.requestState(c.Request)
	nav := navigation.NewResponseNavigator(c.Writer, c.Request)
	if s.runGuard(c, state, nav) {
		return
	}

	index := filepath.Join(s.config.StaticDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		c.File(index)
		return
	}

	name := "anonymous"
	if u, err := token.GetUserInfo(c.Request); err == nil {
		name = u.Name
	}
	c.HTML(http.StatusOK, "home", gin.H{
		"Name":   name,
		"Logout": apipaths.AuthAction(s.config.Routes.AuthPath, apipaths.Logout),
	})
}

const pageTemplates = `
{{define "loading"}}<!doctype html>
<html><head><meta charset="utf-8"><title>Loading</title></head>
<body><div class="spinner" role="status" aria-label="loading"></div></body></html>
{{end}}

{{define "auth"}}<!doctype html>
<html><head><meta charset="utf-8"><title>Sign in</title></head>
<body>
<nav class="tabs">
{{range .View.Tabs}}<a href="{{$.Base}}?mode={{.Mode}}" onclick="location.replace(this.href);return false"{{if .Active}} class="active" aria-current="page"{{end}}>{{.Label}}</a>
{{end}}</nav>
{{if .Error}}<p class="error" role="alert">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
<input name="username" autocomplete="username" required>
<input name="password" type="password" required>
<button type="submit">{{range .View.Tabs}}{{if .Active}}{{.Label}}{{end}}{{end}}</button>
</form>
</body></html>
{{end}}

{{define "home"}}<!doctype html>
<html><head><meta charset="utf-8"><title>Home</title></head>
<body><p>Signed in as {{.Name}}</p><a href="{{.Logout}}">Log out</a></body></html>
{{end}}
`
