package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mindlit/mindlit/client"
	"github.com/stretchr/testify/assert"
)

const meBody = `{"user":{"id":"u1","username":"reader","email":"reader@example.com"}}`

func TestSessionRefreshWithValidCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(meBody))
	}))
	defer srv.Close()

	store := client.NewMemoryStore()
	assert.NoError(t, store.Set("valid-token"))

	c := newTestClient(srv.URL, store)
	session := client.NewSessionState(c)

	assert.NoError(t, session.Refresh(context.Background()))

	identity, ok := session.CurrentIdentity()
	assert.True(t, ok)
	assert.Equal(t, "reader", identity.Username)
}

func TestSessionRefreshWithoutCredentialIsAnonymous(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, client.NewMemoryStore())
	session := client.NewSessionState(c)

	assert.NoError(t, session.Refresh(context.Background()))

	_, ok := session.CurrentIdentity()
	assert.False(t, ok)

	// no credential, no network traffic
	assert.Equal(t, int32(0), calls.Load())
}

func TestSessionRefreshRejectionForcesAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := client.NewMemoryStore()
	assert.NoError(t, store.Set("stale-token"))

	c := newTestClient(srv.URL, store)
	session := client.NewSessionState(c)

	err := session.Refresh(context.Background())
	assert.Error(t, err)
	assert.True(t, client.IsAuthRejected(err))

	_, ok := session.CurrentIdentity()
	assert.False(t, ok)

	_, ok = store.Get()
	assert.False(t, ok)
}

func TestSessionRefreshFailsClosedOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := client.NewMemoryStore()
	assert.NoError(t, store.Set("valid-token"))

	c := newTestClient(srv.URL, store)
	session := client.NewSessionState(c)
	session.Adopt(client.UserPayload{ID: "u1", Username: "reader"})

	err := session.Refresh(context.Background())
	assert.Error(t, err)

	// the previous identity must not survive a failed refresh
	_, ok := session.CurrentIdentity()
	assert.False(t, ok)
}

func TestSessionStaleRefreshCannotResurrectIdentity(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(meBody))
	}))
	defer srv.Close()

	store := client.NewMemoryStore()
	assert.NoError(t, store.Set("soon-stale-token"))

	c := newTestClient(srv.URL, store)
	session := client.NewSessionState(c)

	done := make(chan error, 1)
	go func() {
		done <- session.Refresh(context.Background())
	}()

	// a rejection lands while the refresh is still in flight
	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, session.Logout())
	close(release)

	assert.NoError(t, <-done)

	// the slow refresh completed successfully, but its result is stale
	_, ok := session.CurrentIdentity()
	assert.False(t, ok)
}

func TestSessionAdoptAndLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	store := client.NewMemoryStore()
	assert.NoError(t, store.Set("valid-token"))

	c := newTestClient(srv.URL, store)
	session := client.NewSessionState(c)

	session.Adopt(client.UserPayload{ID: "u1", Username: "reader"})

	identity, ok := session.CurrentIdentity()
	assert.True(t, ok)
	assert.Equal(t, "u1", identity.ID)

	assert.NoError(t, session.Logout())

	_, ok = session.CurrentIdentity()
	assert.False(t, ok)

	_, ok = store.Get()
	assert.False(t, ok)
}
