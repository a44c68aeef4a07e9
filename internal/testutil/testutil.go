// Package testutil provides shared test helpers: a fake upstream record
// service and a temporary SQLite key/value store.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/starford/sikabut/internal/kvstore"
)

// Upstream is a fake spreadsheet script endpoint that records the requests
// it receives.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
}

// NewUpstream starts a fake upstream answering with h. It is closed when
// the test ends.
func NewUpstream(t *testing.T, h http.HandlerFunc) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.requests = append(u.requests, r.Clone(r.Context()))
		u.mu.Unlock()
		h(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

// JSONUpstream starts a fake upstream that always answers status with body.
func JSONUpstream(t *testing.T, status int, body string) *Upstream {
	t.Helper()
	return NewUpstream(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// Requests returns the requests received so far.
func (u *Upstream) Requests() []*http.Request {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*http.Request, len(u.requests))
	copy(out, u.requests)
	return out
}

// Calls returns how many requests were received.
func (u *Upstream) Calls() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

// KVStore creates a temporary SQLite key/value store that is cleaned up
// automatically.
func KVStore(t *testing.T) *kvstore.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "sikabut-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := kvstore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
