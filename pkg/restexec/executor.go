package restexec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/crisisready/fieldlink/pkg/observability"
	"github.com/crisisready/fieldlink/pkg/vault"
)

// SessionSource supplies the current backend credentials and the refresh
// operation. The session coordinator implements it.
type SessionSource interface {
	// BackendCredentials returns the current credential pair, or nil when
	// no session is present.
	BackendCredentials() (*vault.Credentials, error)

	// Refresh re-derives backend credentials for the current session.
	Refresh(ctx context.Context) error
}

// Request describes one backend call
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response carries a successful backend reply
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Config holds executor configuration
type Config struct {
	BaseURL string `yaml:"base_url"`
}

// Executor performs authenticated backend calls
type Executor struct {
	baseURL string
	client  *http.Client
	source  SessionSource
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewExecutor creates an executor bound to a session source
func NewExecutor(config Config, source SessionSource, logger *observability.Logger, metrics *observability.Metrics) *Executor {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	if metrics == nil {
		metrics = observability.NewNopMetrics()
	}

	return &Executor{
		baseURL: config.BaseURL,
		client:  &http.Client{},
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// SetHTTPClient overrides the transport. Timeouts belong to the injected
// client; the executor imposes none of its own.
func (e *Executor) SetHTTPClient(client *http.Client) {
	e.client = client
}

// Do executes one authenticated call. On the first 401 it refreshes the
// session credentials and retries exactly once; a 401 on the retry is
// returned as a ServerError like any other failure status.
func (e *Executor) Do(ctx context.Context, req Request) (*Response, error) {
	creds, err := e.source.BackendCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if creds == nil {
		return nil, ErrAuthRequired
	}

	resp, err := e.send(ctx, req, creds)
	if err != nil {
		return nil, err
	}

	if resp.Status == http.StatusUnauthorized {
		e.logger.Debug("backend rejected credentials, refreshing")
		if err := e.source.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthExpired, err)
		}

		creds, err = e.source.BackendCredentials()
		if err != nil {
			return nil, fmt.Errorf("failed to reload credentials: %w", err)
		}
		if creds == nil {
			return nil, ErrAuthExpired
		}

		e.metrics.ExecutorRetriesTotal.Inc()
		resp, err = e.send(ctx, req, creds)
		if err != nil {
			return nil, err
		}
	}

	if resp.Status < 200 || resp.Status > 299 {
		return nil, &ServerError{Status: resp.Status, Body: resp.Body}
	}
	return resp, nil
}

// send performs a single attempt and reads the full body
func (e *Executor) send(ctx context.Context, req Request, creds *vault.Credentials) (*Response, error) {
	target := e.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.SetBasicAuth(creds.Username, creds.Password)

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		e.metrics.ExecutorRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		e.metrics.ExecutorRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, &NetworkError{URL: target, Err: err}
	}

	e.metrics.ExecutorRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(httpResp.StatusCode)).Inc()

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   respBody,
	}, nil
}
