package vault

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is a volatile vault for unit tests and throwaway shells.
// It does not survive restarts.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory vault
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// SetCredentials stores the backend credential pair
func (s *MemoryStore) SetCredentials(ctx context.Context, creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[KeyCredentials] = data
	return nil
}

// Credentials retrieves the stored credential pair, (nil, nil) on a miss
func (s *MemoryStore) Credentials(ctx context.Context) (*Credentials, error) {
	s.mu.Lock()
	data, ok := s.entries[KeyCredentials]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// DeleteCredentials removes the stored credential pair
func (s *MemoryStore) DeleteCredentials(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, KeyCredentials)
	return nil
}

// SetProfileSnapshot stores the profile snapshot JSON
func (s *MemoryStore) SetProfileSnapshot(ctx context.Context, snapshot json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[KeyProfileSnapshot] = append([]byte(nil), snapshot...)
	return nil
}

// ProfileSnapshot retrieves the profile snapshot, (nil, nil) on a miss
func (s *MemoryStore) ProfileSnapshot(ctx context.Context) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.entries[KeyProfileSnapshot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// DeleteProfileSnapshot removes the profile snapshot
func (s *MemoryStore) DeleteProfileSnapshot(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, KeyProfileSnapshot)
	return nil
}

// Clear removes all vault entries
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]byte)
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
