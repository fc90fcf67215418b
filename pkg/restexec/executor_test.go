package restexec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisisready/fieldlink/pkg/vault"
)

// stubSource is a scriptable SessionSource
type stubSource struct {
	creds      atomic.Pointer[vault.Credentials]
	credsErr   error
	refreshErr error
	refreshes  atomic.Int64
	onRefresh  func()
}

func (s *stubSource) BackendCredentials() (*vault.Credentials, error) {
	if s.credsErr != nil {
		return nil, s.credsErr
	}
	return s.creds.Load(), nil
}

func (s *stubSource) Refresh(ctx context.Context) error {
	s.refreshes.Add(1)
	if s.onRefresh != nil {
		s.onRefresh()
	}
	return s.refreshErr
}

func newStubSource(username, password string) *stubSource {
	s := &stubSource{}
	s.creds.Store(&vault.Credentials{Username: username, Password: password})
	return s
}

// newBackend serves a fake legacy backend that accepts exactly one
// credential pair.
func newBackend(t *testing.T, username, password string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	r := mux.NewRouter()
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		user, pass, ok := req.BasicAuth()
		if !ok || user != username || pass != password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, &hits
}

func TestExecutor_Success(t *testing.T) {
	server, _ := newBackend(t, "relay", "pw")
	source := newStubSource("relay", "pw")
	exec := NewExecutor(Config{BaseURL: server.URL}, source, nil, nil)

	resp, err := exec.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/ping"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
	assert.Equal(t, int64(0), source.refreshes.Load())
}

func TestExecutor_AuthRequiredWithoutSession(t *testing.T) {
	server, hits := newBackend(t, "relay", "pw")
	source := &stubSource{} // no credentials
	exec := NewExecutor(Config{BaseURL: server.URL}, source, nil, nil)

	_, err := exec.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/ping"})
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, int64(0), hits.Load(), "nothing should reach the backend")
}

func TestExecutor_RefreshAndRetryOn401(t *testing.T) {
	server, hits := newBackend(t, "relay", "new-pw")
	source := newStubSource("relay", "stale-pw")
	source.onRefresh = func() {
		source.creds.Store(&vault.Credentials{Username: "relay", Password: "new-pw"})
	}
	exec := NewExecutor(Config{BaseURL: server.URL}, source, nil, nil)

	resp, err := exec.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/ping"})
	require.NoError(t, err)

	// Caller observes a transparent 200 after exactly one refresh.
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, int64(1), source.refreshes.Load())
	assert.Equal(t, int64(2), hits.Load())
}

func TestExecutor_AuthExpiredWhenRefreshFails(t *testing.T) {
	server, hits := newBackend(t, "relay", "other")
	source := newStubSource("relay", "stale-pw")
	source.refreshErr = errors.New("no principal held")
	exec := NewExecutor(Config{BaseURL: server.URL}, source, nil, nil)

	_, err := exec.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/ping"})
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.Equal(t, int64(1), hits.Load(), "no retry after a failed refresh")
}

func TestExecutor_SecondAttempt401IsServerError(t *testing.T) {
	server, hits := newBackend(t, "relay", "never-right")
	source := newStubSource("relay", "stale-pw")
	exec := NewExecutor(Config{BaseURL: server.URL}, source, nil, nil)

	_, err := exec.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/ping"})

	// No further 401 handling on the retry.
	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusUnauthorized, serverErr.Status)
	assert.Equal(t, int64(1), source.refreshes.Load())
	assert.Equal(t, int64(2), hits.Load())
}

func TestExecutor_ServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "shard down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := newStubSource("relay", "pw")
	exec := NewExecutor(Config{BaseURL: server.URL}, source, nil, nil)

	_, err := exec.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/ping"})

	var serverErr *ServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusServiceUnavailable, serverErr.Status)
	assert.Contains(t, string(serverErr.Body), "shard down")
	assert.Equal(t, int64(0), source.refreshes.Load(), "5xx must not trigger a refresh")
}

func TestExecutor_NetworkErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused

	source := newStubSource("relay", "pw")
	exec := NewExecutor(Config{BaseURL: server.URL}, source, nil, nil)

	_, err := exec.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v2/ping"})

	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestExecutor_QueryAndHeadersForwarded(t *testing.T) {
	var gotQuery, gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("status")
		gotHeader = r.Header.Get("X-Client-Version")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	source := newStubSource("relay", "pw")
	exec := NewExecutor(Config{BaseURL: server.URL}, source, nil, nil)

	header := http.Header{}
	header.Set("X-Client-Version", "1.4.2")
	_, err := exec.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/v2/assignments",
		Query:  map[string][]string{"status": {"open"}},
		Header: header,
	})
	require.NoError(t, err)
	assert.Equal(t, "open", gotQuery)
	assert.Equal(t, "1.4.2", gotHeader)
}
