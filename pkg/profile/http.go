package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/crisisready/fieldlink/pkg/observability"
	"github.com/crisisready/fieldlink/pkg/vault"
)

const (
	defaultCacheSize = 64
	defaultCacheTTL  = 5 * time.Minute
)

// HTTPStoreConfig holds profile service client configuration
type HTTPStoreConfig struct {
	BaseURL   string        `yaml:"base_url"`
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// HTTPStore talks to the profile service REST API. Reads go through an
// expirable LRU cache; successful reads and creates are mirrored into the
// vault snapshot for cold-start rendering.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	cache   *lru.LRU[string, *UserProfile]
	vault   vault.Store
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewHTTPStore creates a profile store client. The vault is optional; pass
// nil to disable snapshot mirroring.
func NewHTTPStore(config HTTPStoreConfig, vaultStore vault.Store, logger *observability.Logger, metrics *observability.Metrics) *HTTPStore {
	size := config.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := config.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	if metrics == nil {
		metrics = observability.NewNopMetrics()
	}

	return &HTTPStore{
		baseURL: config.BaseURL,
		client:  &http.Client{},
		cache:   lru.NewLRU[string, *UserProfile](size, nil, ttl),
		vault:   vaultStore,
		logger:  logger,
		metrics: metrics,
	}
}

// SetHTTPClient overrides the transport. Used by the app shell to inject
// its pinned-certificate client.
func (s *HTTPStore) SetHTTPClient(client *http.Client) {
	s.client = client
}

func (s *HTTPStore) url(id string) string {
	return fmt.Sprintf("%s/v1/profiles/%s", s.baseURL, id)
}

// Fetch returns the profile for id, or ErrNotFound
func (s *HTTPStore) Fetch(ctx context.Context, id string) (*UserProfile, error) {
	if cached, ok := s.cache.Get(id); ok {
		s.metrics.ProfileCacheHitsTotal.Inc()
		return cached.Clone(), nil
	}
	s.metrics.ProfileCacheMissesTotal.Inc()

	url := s.url(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "fetch", URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("profile service returned %d: %s", resp.StatusCode, body)
	}

	var p UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	s.remember(ctx, &p)
	return p.Clone(), nil
}

// Create registers a new profile document
func (s *HTTPStore) Create(ctx context.Context, id string, seed Seed) (*UserProfile, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seed: %w", err)
	}

	url := s.url(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "create", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("profile service returned %d: %s", resp.StatusCode, respBody)
	}

	var p UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode created profile: %w", err)
	}

	s.remember(ctx, &p)
	return p.Clone(), nil
}

// Update merges a partial update into the stored document
func (s *HTTPStore) Update(ctx context.Context, id string, update ProfileUpdate) error {
	if err := update.Validate(); err != nil {
		return err
	}
	if update.IsEmpty() {
		return nil
	}

	body, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	url := s.url(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &NetworkError{Op: "update", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("profile service returned %d: %s", resp.StatusCode, respBody)
	}

	// Merge into the cached copy instead of refetching; mirror the result.
	if cached, ok := s.cache.Get(id); ok {
		merged := cached.Clone()
		update.Apply(merged)
		s.remember(ctx, merged)
	}

	return nil
}

// remember caches the profile and mirrors it into the vault snapshot
func (s *HTTPStore) remember(ctx context.Context, p *UserProfile) {
	s.cache.Add(p.ID, p.Clone())

	if s.vault == nil {
		return
	}
	snapshot, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.vault.SetProfileSnapshot(ctx, snapshot); err != nil {
		// Mirroring is a convenience for the UI layer; never fail the read.
		s.logger.WithError(err).Warn("failed to mirror profile snapshot")
	}
}

// Invalidate drops the cached entry for id
func (s *HTTPStore) Invalidate(id string) {
	s.cache.Remove(id)
}
