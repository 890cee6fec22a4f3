// Package session holds the process-wide broker session: the host error
// callback, the set of subscribed symbols, and the credentials established at
// login. One Store is shared by every entry point for the lifetime of the
// plugin.
package session

import (
	"errors"
	"sync"

	"tradier-bridge/internal/tradier"
)

// ErrNotReady reports a data or order call made before a successful login.
var ErrNotReady = errors.New("session: not logged in")

// Callback is the host-supplied reporting function registered at open time.
type Callback func(msg string)

// Store is the mutex-guarded session state. The lock covers in-memory reads
// and writes only; no network call and no host callback runs while it is held.
type Store struct {
	mu            sync.Mutex
	callback      Callback
	subscriptions map[string]struct{}
	config        *tradier.Config
}

// New creates an empty session store.
func New() *Store {
	return &Store{subscriptions: make(map[string]struct{})}
}

// SetCallback registers the host reporting callback. Later registrations
// overwrite earlier ones.
func (s *Store) SetCallback(cb Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = cb
}

// Notify forwards msg to the host callback when one is registered and silently
// drops it otherwise. The callback runs outside the lock. Diagnostic
// side-channel only: Notify never fails the caller.
func (s *Store) Notify(msg string) {
	s.mu.Lock()
	cb := s.callback
	s.mu.Unlock()

	if cb == nil {
		return
	}
	defer func() {
		// A misbehaving host callback must not take the entry point down.
		_ = recover()
	}()
	cb(msg)
}

// SetConfig stores the session config established by a successful login,
// overwriting any previous one.
func (s *Store) SetConfig(cfg tradier.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = &cfg
}

// Config returns the session config, reporting false before login succeeds.
func (s *Store) Config() (tradier.Config, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return tradier.Config{}, false
	}
	return *s.config, true
}

// Subscribe adds symbol to the subscription set and reports whether this call
// inserted it. Duplicate subscriptions are no-ops.
func (s *Store) Subscribe(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscriptions[symbol]; ok {
		return false
	}
	s.subscriptions[symbol] = struct{}{}
	return true
}

// Subscribed reports whether symbol is already in the subscription set.
func (s *Store) Subscribed(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subscriptions[symbol]
	return ok
}

// SubscriptionCount returns the number of subscribed symbols.
func (s *Store) SubscriptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscriptions)
}

// Reset clears the session back to its unopened state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = nil
	s.config = nil
	s.subscriptions = make(map[string]struct{})
}
