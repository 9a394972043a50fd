package session

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/authguard/internal/logger"
)

// Checker performs the credential check that resolves the loading state
type Checker interface {
	Check(ctx context.Context) (bool, error)
}

// CheckerFunc adapts a function to Checker
type CheckerFunc func(ctx context.Context) (bool, error)

// Check calls f
func (f CheckerFunc) Check(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Resolver drives a Store from loading to a determinate state.
// Only the result of the most recent check is applied.
type Resolver struct {
	store   *Store
	checker Checker
	log     *logger.Logger

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewResolver creates a resolver for store
func NewResolver(store *Store, checker Checker, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Default()
	}
	return &Resolver{store: store, checker: checker, log: log}
}

// Resolve marks the store loading, runs the check and applies the result.
// A failed check resolves to unauthenticated and returns the error.
func (r *Resolver) Resolve(ctx context.Context) error {
	gen := r.begin(nil)
	return r.run(ctx, gen)
}

// Start runs Resolve in the background, cancelling any check still in flight
func (r *Resolver) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	gen := r.begin(cancel)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		_ = r.run(ctx, gen)
	}()
}

// Wait blocks until background checks have finished
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// Stop cancels an in-flight background check and waits for it
func (r *Resolver) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	r.mu.Unlock()
	r.wg.Wait()
}

// Login records a successful authentication
func (r *Resolver) Login() {
	r.supersede()
	r.store.Set(StateAuthenticated)
}

// Logout records that the session ended
func (r *Resolver) Logout() {
	r.supersede()
	r.store.Set(StateAnonymous)
}

func (r *Resolver) begin(cancel context.CancelFunc) uint64 {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.cancel = cancel
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	r.store.Set(StateLoading)
	return gen
}

func (r *Resolver) supersede() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.gen++
	r.mu.Unlock()
}

func (r *Resolver) run(ctx context.Context, gen uint64) error {
	ok, err := r.checker.Check(ctx)

	r.mu.Lock()
	current := gen == r.gen
	r.mu.Unlock()
	if !current {
		return err
	}

	if err != nil {
		r.log.Warn("credential check failed", logger.Properties{"error": err.Error()})
		r.store.Set(StateAnonymous)
		return err
	}

	r.log.Debug("credential check resolved", logger.Properties{"authenticated": ok})
	r.store.Set(AuthState{Authenticated: ok})
	return nil
}

// HTTPChecker resolves the auth state by asking the server who the caller is
type HTTPChecker struct {
	Client *http.Client
	URL    string
}

// NewHTTPChecker checks against meURL with a client that carries cookies via jar
func NewHTTPChecker(meURL string, jar http.CookieJar) *HTTPChecker {
	return &HTTPChecker{
		Client: &http.Client{Jar: jar, Timeout: 10 * time.Second},
		URL:    meURL,
	}
}

// Check implements Checker. 200 means authenticated, 401 and 403 mean not.
func (c *HTTPChecker) Check(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	}
	return false, fmt.Errorf("unexpected status from %s: %d", c.URL, resp.StatusCode)
}
