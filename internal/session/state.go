// Package session owns the auth state: whether the caller is logged in and
// whether that is still being determined. It is the only writer of that state;
// everything else observes it through Provider.
package session

import (
	"sync"
)

// AuthState describes a user's session status
type AuthState struct {
	Authenticated bool
	Loading       bool
}

var (
	// StateLoading is the indeterminate state every Store starts in
	StateLoading = AuthState{Loading: true}
	// StateAnonymous is a resolved, logged-out state
	StateAnonymous = AuthState{}
	// StateAuthenticated is a resolved, logged-in state
	StateAuthenticated = AuthState{Authenticated: true}
)

// Provider exposes the current AuthState and notifies on change
type Provider interface {
	State() AuthState
	Subscribe(func(AuthState)) (unsubscribe func())
}

// Store is an observable, concurrency-safe Provider
type Store struct {
	mu     sync.Mutex
	state  AuthState
	nextID int
	subs   map[int]func(AuthState)
}

// NewStore creates a Store in the loading state
func NewStore() *Store {
	return &Store{
		state: StateLoading,
		subs:  make(map[int]func(AuthState)),
	}
}

// State implements Provider
func (s *Store) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe implements Provider
func (s *Store) Subscribe(fn func(AuthState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Set replaces the state. Subscribers are called synchronously, without the
// lock held, and only when the state changed.
func (s *Store) Set(state AuthState) {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return
	}
	s.state = state
	subs := make([]func(AuthState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}

// Static is a Provider whose state never changes
type Static AuthState

// State implements Provider
func (s Static) State() AuthState {
	return AuthState(s)
}

// Subscribe implements Provider
func (s Static) Subscribe(func(AuthState)) func() {
	return func() {}
}
