package session

import "sync"

// Session carries the bearer token the transport attaches to every API
// call. It replaces ambient token storage: components receive a
// *Session at construction, and the transport invalidates it on any
// 401.
type Session struct {
	mu             sync.Mutex
	token          string
	onUnauthorized func()
}

// New creates a session. onUnauthorized may be nil; when set it fires
// once per invalidation so the caller can redirect to sign-in.
func New(token string, onUnauthorized func()) *Session {
	return &Session{token: token, onUnauthorized: onUnauthorized}
}

// Token returns the current bearer token, empty for anonymous
// sessions.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken installs a new token, e.g. after sign-in.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Invalidate clears the token. The unauthorized hook fires only when a
// token was actually present, so overlapping 401s report once.
func (s *Session) Invalidate() {
	s.mu.Lock()
	hadToken := s.token != ""
	s.token = ""
	hook := s.onUnauthorized
	s.mu.Unlock()

	if hadToken && hook != nil {
		hook()
	}
}
