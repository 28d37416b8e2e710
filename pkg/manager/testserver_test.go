package manager

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/td-cli/td/pkg/api"
	"github.com/td-cli/td/pkg/cache"
)

// syncHandler decides the response for one /sync call. call counts from
// zero; form holds the decoded request fields.
type syncHandler func(call int, form url.Values) (status int, body string)

// syncServer is a mock sync endpoint recording every request.
type syncServer struct {
	mu      sync.Mutex
	calls   int
	forms   []url.Values
	handler syncHandler
	srv     *httptest.Server
}

func newSyncServer(t *testing.T, handler syncHandler) *syncServer {
	t.Helper()
	s := &syncServer{handler: handler}

	r := chi.NewRouter()
	r.Post("/sync", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseForm())

		s.mu.Lock()
		call := s.calls
		s.calls++
		s.forms = append(s.forms, req.PostForm)
		s.mu.Unlock()

		status, body := s.handler(call, req.PostForm)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})

	s.srv = httptest.NewServer(r)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *syncServer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *syncServer) form(i int) url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forms[i]
}

// newTestManager wires a manager against the mock server with a cache
// file in a temp dir.
func newTestManager(t *testing.T, s *syncServer) *Manager {
	t.Helper()
	client := api.NewClient("test-token", api.WithBaseURL(s.srv.URL))
	store := cache.NewStoreWithPath(filepath.Join(t.TempDir(), "cache.json"))
	m, err := New(client, store)
	require.NoError(t, err)
	return m
}

// respondOnce always answers with the same payload.
func respondOnce(body string) syncHandler {
	return func(int, url.Values) (int, string) {
		return http.StatusOK, body
	}
}
