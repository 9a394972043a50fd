// Package guard keeps the current location consistent with the auth state:
// unauthenticated users stay on the auth page and authenticated users stay
// off it. The policy is re-evaluated whenever the auth state or the location
// changes.
package guard

import (
	"strings"
	"sync"

	"github.com/authguard/internal/logger"
	"github.com/authguard/internal/navigation"
	"github.com/authguard/internal/session"
)

const (
	DefaultAuthPath = "/auth"
	DefaultHomePath = "/"
)

// Action is the outcome of one decision cycle
type Action int

const (
	// ActionLoading shows the loading indicator and does not navigate
	ActionLoading Action = iota
	// ActionRedirectAuth sends an unauthenticated user to the auth page
	ActionRedirectAuth
	// ActionRedirectHome sends an authenticated user away from the auth page
	ActionRedirectHome
	// ActionRender renders the wrapped content
	ActionRender
)

func (a Action) String() string {
	switch a {
	case ActionLoading:
		return "loading"
	case ActionRedirectAuth:
		return "redirect_auth"
	case ActionRedirectHome:
		return "redirect_home"
	case ActionRender:
		return "render"
	}
	return "unknown"
}

// Decision is the action for a given state and path, plus the navigation it needs
type Decision struct {
	Action     Action
	Navigation *navigation.Request
}

// View is what the guard renders
type View int

const (
	ViewLoading View = iota
	ViewContent
)

func (v View) String() string {
	if v == ViewLoading {
		return "loading"
	}
	return "content"
}

// Policy holds the two paths the decision depends on
type Policy struct {
	AuthPath string
	HomePath string
}

// DefaultPolicy uses /auth and /
var DefaultPolicy = Policy{AuthPath: DefaultAuthPath, HomePath: DefaultHomePath}

// OnAuthPage reports whether pathname is (inside) the auth page.
// Matching is substring containment, so /auth/local/login counts too.
func (p Policy) OnAuthPage(pathname string) bool {
	return strings.Contains(pathname, p.AuthPath)
}

// Decide evaluates the policy in order; the first match wins
func (p Policy) Decide(state session.AuthState, pathname string) Decision {
	onAuth := p.OnAuthPage(pathname)

	switch {
	case state.Loading:
		return Decision{Action: ActionLoading}
	case !state.Authenticated && !onAuth:
		return Decision{
			Action:     ActionRedirectAuth,
			Navigation: &navigation.Request{To: p.AuthPath, Replace: true},
		}
	case state.Authenticated && onAuth:
		return Decision{
			Action:     ActionRedirectHome,
			Navigation: &navigation.Request{To: p.HomePath, Replace: true},
		}
	}
	return Decision{Action: ActionRender}
}

// Decide evaluates the default policy
func Decide(state session.AuthState, pathname string) Decision {
	return DefaultPolicy.Decide(state, pathname)
}

// ShowLoading is the loading-indicator visibility rule: while loading, or while
// a redirect to the auth page is still in flight. An authenticated user on the
// auth page is not covered by this rule.
func (p Policy) ShowLoading(state session.AuthState, pathname string, pending bool) bool {
	return state.Loading || (pending && !p.OnAuthPage(pathname) && !state.Authenticated)
}

type inputs struct {
	state    session.AuthState
	pathname string
}

// Guard is the reactive redirect guard
type Guard struct {
	provider  session.Provider
	router    navigation.Router
	navigator navigation.Navigator
	policy    Policy
	log       *logger.Logger

	mu        sync.Mutex
	pending   bool
	last      inputs
	evaluated bool
	running   bool
	rerun     bool
	unsubs    []func()
}

// Option configures a Guard
type Option func(*Guard)

// WithAuthPath overrides the auth page path
func WithAuthPath(path string) Option {
	return func(g *Guard) {
		g.policy.AuthPath = path
	}
}

// WithHomePath overrides the home path
func WithHomePath(path string) Option {
	return func(g *Guard) {
		g.policy.HomePath = path
	}
}

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(g *Guard) {
		g.log = l
	}
}

// New creates a guard. Call Start to begin reacting to changes.
func New(provider session.Provider, router navigation.Router, navigator navigation.Navigator, opts ...Option) *Guard {
	g := &Guard{
		provider:  provider,
		router:    router,
		navigator: navigator,
		policy:    DefaultPolicy,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Default()
	}
	return g
}

// Start subscribes to auth and location changes and runs the first evaluation
func (g *Guard) Start() {
	unsubAuth := g.provider.Subscribe(func(session.AuthState) { g.Evaluate() })
	unsubLoc := g.router.Subscribe(func(navigation.Location) { g.Evaluate() })

	g.mu.Lock()
	g.unsubs = append(g.unsubs, unsubAuth, unsubLoc)
	g.mu.Unlock()

	g.Evaluate()
}

// Stop removes the subscriptions
func (g *Guard) Stop() {
	g.mu.Lock()
	unsubs := g.unsubs
	g.unsubs = nil
	g.mu.Unlock()

	for _, fn := range unsubs {
		fn()
	}
}

// Evaluate runs the decision policy against the current inputs. Evaluations
// with unchanged inputs are no-ops, so each transition navigates at most once.
//
// Evaluations are serialized: a call that arrives while another is running
// (from another goroutine, or re-entrantly from the navigation itself) only
// marks the running one dirty, and the running one re-reads the inputs before
// returning. The memo therefore always ends on the latest inputs. Navigation
// happens without the lock held.
func (g *Guard) Evaluate() Decision {
	g.mu.Lock()
	if g.running {
		g.rerun = true
		g.mu.Unlock()
		return g.policy.Decide(g.provider.State(), g.router.Location().Pathname)
	}
	g.running = true
	g.mu.Unlock()

	for {
		in := inputs{state: g.provider.State(), pathname: g.router.Location().Pathname}
		d := g.policy.Decide(in.state, in.pathname)

		g.mu.Lock()
		changed := !g.evaluated || g.last != in
		if changed {
			g.evaluated = true
			g.last = in
			g.pending = d.Navigation != nil
		}
		g.mu.Unlock()

		if changed && d.Navigation != nil {
			g.log.Debug("guard redirect", logger.Properties{
				"from":   in.pathname,
				"to":     d.Navigation.To,
				"action": d.Action.String(),
			})
			g.navigator.Navigate(*d.Navigation)
		}

		g.mu.Lock()
		if !g.rerun {
			g.running = false
			g.mu.Unlock()
			return d
		}
		g.rerun = false
		g.mu.Unlock()
	}
}

// Pending reports whether a redirect was issued and not yet reflected in the location
func (g *Guard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// View returns what to render for the current inputs
func (g *Guard) View() View {
	state := g.provider.State()
	pathname := g.router.Location().Pathname

	if g.policy.ShowLoading(state, pathname, g.Pending()) {
		return ViewLoading
	}
	return ViewContent
}
