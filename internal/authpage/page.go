// Package authpage is the auth page controller: it tracks the active
// sign-in/sign-up tab through the mode query parameter and leaves for the
// home location once the user is authenticated.
package authpage

import (
	"sync"

	"github.com/authguard/internal/logger"
	"github.com/authguard/internal/navigation"
	"github.com/authguard/internal/session"
)

// Tab is one selectable form on the page
type Tab struct {
	Mode   Mode
	Label  string
	Active bool
}

// View is the rendered page model. A nil View renders nothing.
type View struct {
	ActiveTab Mode
	Tabs      []Tab
}

var tabLabels = map[Mode]string{
	ModeSignIn: "Sign In",
	ModeSignUp: "Sign Up",
}

// Page is the auth page controller
type Page struct {
	provider  session.Provider
	navigator navigation.Navigator
	authPath  string
	homePath  string
	log       *logger.Logger

	mu     sync.Mutex
	mode   Mode
	unsub  func()
	authed bool
}

// Option configures a Page
type Option func(*Page)

// WithPaths overrides the auth page and home paths
func WithPaths(authPath, homePath string) Option {
	return func(p *Page) {
		p.authPath = authPath
		p.homePath = homePath
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(p *Page) {
		p.log = l
	}
}

// New creates a page showing the tab for search
func New(provider session.Provider, navigator navigation.Navigator, search Search, opts ...Option) *Page {
	p := &Page{
		provider:  provider,
		navigator: navigator,
		authPath:  "/auth",
		homePath:  "/",
		mode:      search.Mode,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Default()
	}
	return p
}

// Start redirects home now if already authenticated, and whenever the
// provider later reports authentication
func (p *Page) Start() {
	unsub := p.provider.Subscribe(p.onState)
	p.mu.Lock()
	p.unsub = unsub
	p.mu.Unlock()

	p.onState(p.provider.State())
}

// Stop removes the subscription
func (p *Page) Stop() {
	p.mu.Lock()
	unsub := p.unsub
	p.unsub = nil
	p.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (p *Page) onState(state session.AuthState) {
	p.mu.Lock()
	entering := state.Authenticated && !p.authed
	p.authed = state.Authenticated
	p.mu.Unlock()

	if entering {
		p.goHome()
	}
}

// Mode returns the active tab
func (p *Page) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// SelectMode switches tabs, replacing the current history entry
func (p *Page) SelectMode(m Mode) {
	p.mu.Lock()
	p.mode = m
	p.mu.Unlock()

	p.navigator.Navigate(navigation.Request{
		To:      p.authPath,
		Replace: true,
		Search:  Search{Mode: m}.Values(),
	})
}

// Succeed is called when either form reports a successful sign-in or sign-up
func (p *Page) Succeed() {
	p.log.Info("auth form succeeded", logger.Properties{"mode": p.Mode().String()})
	p.goHome()
}

// View returns nil once authenticated, otherwise the tab model
func (p *Page) View() *View {
	if p.provider.State().Authenticated {
		return nil
	}

	active := p.Mode()
	v := &View{ActiveTab: active}
	for _, m := range Modes() {
		v.Tabs = append(v.Tabs, Tab{Mode: m, Label: tabLabels[m], Active: m == active})
	}
	return v
}

func (p *Page) goHome() {
	p.navigator.Navigate(navigation.Request{To: p.homePath, Replace: true})
}
