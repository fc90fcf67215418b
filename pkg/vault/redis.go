package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/crisisready/fieldlink/pkg/observability"
)

const redisBackend = "redis"

// RedisConfig holds Redis vault configuration
type RedisConfig struct {
	URL       string `yaml:"url"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

// RedisStore keeps vault entries in Redis. Entries carry no TTL; the
// coordinator deletes them explicitly on sign-out.
type RedisStore struct {
	client    *redis.Client
	namespace string
	metrics   *observability.Metrics
}

// NewRedisStore creates a Redis-backed vault and verifies connectivity
func NewRedisStore(config RedisConfig, metrics *observability.Metrics) (*RedisStore, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if config.Password != "" {
		opts.Password = config.Password
	}
	if config.DB >= 0 {
		opts.DB = config.DB
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	namespace := config.Namespace
	if namespace == "" {
		namespace = "fieldlink:vault"
	}
	if metrics == nil {
		metrics = observability.NewNopMetrics()
	}

	return &RedisStore{
		client:    client,
		namespace: namespace,
		metrics:   metrics,
	}, nil
}

func (s *RedisStore) key(name string) string {
	return fmt.Sprintf("%s:%s", s.namespace, name)
}

func (s *RedisStore) set(ctx context.Context, name string, value []byte) error {
	s.metrics.VaultOperationsTotal.WithLabelValues(redisBackend, "set_"+name).Inc()
	if err := s.client.Set(ctx, s.key(name), value, 0).Err(); err != nil {
		s.metrics.VaultErrorsTotal.WithLabelValues(redisBackend, "set_"+name).Inc()
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) get(ctx context.Context, name string) ([]byte, error) {
	s.metrics.VaultOperationsTotal.WithLabelValues(redisBackend, "get_"+name).Inc()
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if err == redis.Nil {
		return nil, nil // miss
	} else if err != nil {
		s.metrics.VaultErrorsTotal.WithLabelValues(redisBackend, "get_"+name).Inc()
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (s *RedisStore) delete(ctx context.Context, name string) error {
	s.metrics.VaultOperationsTotal.WithLabelValues(redisBackend, "delete_"+name).Inc()
	if err := s.client.Del(ctx, s.key(name)).Err(); err != nil {
		s.metrics.VaultErrorsTotal.WithLabelValues(redisBackend, "delete_"+name).Inc()
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// SetCredentials stores the backend credential pair
func (s *RedisStore) SetCredentials(ctx context.Context, creds Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	return s.set(ctx, KeyCredentials, data)
}

// Credentials retrieves the stored credential pair, (nil, nil) on a miss
func (s *RedisStore) Credentials(ctx context.Context) (*Credentials, error) {
	data, err := s.get(ctx, KeyCredentials)
	if err != nil || data == nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		// Corrupt entry; drop it rather than serve garbage.
		s.delete(ctx, KeyCredentials)
		return nil, fmt.Errorf("failed to unmarshal credentials: %w", err)
	}
	return &creds, nil
}

// DeleteCredentials removes the stored credential pair
func (s *RedisStore) DeleteCredentials(ctx context.Context) error {
	return s.delete(ctx, KeyCredentials)
}

// SetProfileSnapshot stores the profile snapshot JSON
func (s *RedisStore) SetProfileSnapshot(ctx context.Context, snapshot json.RawMessage) error {
	return s.set(ctx, KeyProfileSnapshot, snapshot)
}

// ProfileSnapshot retrieves the profile snapshot, (nil, nil) on a miss
func (s *RedisStore) ProfileSnapshot(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, KeyProfileSnapshot)
}

// DeleteProfileSnapshot removes the profile snapshot
func (s *RedisStore) DeleteProfileSnapshot(ctx context.Context) error {
	return s.delete(ctx, KeyProfileSnapshot)
}

// Clear removes all vault entries
func (s *RedisStore) Clear(ctx context.Context) error {
	s.metrics.VaultOperationsTotal.WithLabelValues(redisBackend, "clear").Inc()
	if err := s.client.Del(ctx, s.key(KeyCredentials), s.key(KeyProfileSnapshot)).Err(); err != nil {
		s.metrics.VaultErrorsTotal.WithLabelValues(redisBackend, "clear").Inc()
		return fmt.Errorf("redis clear failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
