package client

import (
	"context"
	"sync"
)

// SessionState is the single in-process answer to "who is logged in right
// now". It fails closed: any doubt about the session resolves to anonymous,
// never to a stale identity.
type SessionState struct {
	mu         sync.Mutex
	client     *Client
	identity   *UserPayload
	generation uint64
}

// NewSessionState wires the client's auth rejection path into the session, so
// a rejected credential anywhere immediately forces anonymous.
func NewSessionState(c *Client) *SessionState {
	s := &SessionState{client: c}
	c.OnAuthRejected(s.forceAnonymous)
	return s
}

// CurrentIdentity returns the verified identity, or false when anonymous
func (s *SessionState) CurrentIdentity() (*UserPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return nil, false
	}

	identity := *s.identity
	return &identity, true
}

// Refresh re-derives the session from the stored credential. No credential
// means anonymous without a network call. A verification failure of any kind
// leaves the session anonymous; the identity is only ever set from a fresh
// successful response.
func (s *SessionState) Refresh(ctx context.Context) error {
	if _, ok := s.client.Store().Get(); !ok {
		s.mu.Lock()
		s.identity = nil
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	generation := s.generation
	s.mu.Unlock()

	user, err := s.client.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A rejection that landed while this request was in flight already forced
	// anonymous; its result must not resurrect the old identity.
	if s.generation != generation {
		return err
	}

	if err != nil {
		s.identity = nil
		return err
	}

	s.identity = user
	return nil
}

// Adopt records the identity returned by a successful login or registration
func (s *SessionState) Adopt(user UserPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &user
}

// Logout clears the stored credential and resets the session to anonymous
func (s *SessionState) Logout() error {
	err := s.client.Logout()
	s.forceAnonymous()
	return err
}

func (s *SessionState) forceAnonymous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.generation++
}
