package vault

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisStoreTest creates a miniredis instance and returns the store and cleanup function
func setupRedisStoreTest(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	store, err := NewRedisStore(RedisConfig{URL: "redis://" + mr.Addr()}, nil)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis store: %v", err)
	}

	cleanup := func() {
		store.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisStore_CredentialsRoundTrip(t *testing.T) {
	store, _, cleanup := setupRedisStoreTest(t)
	defer cleanup()

	ctx := context.Background()

	// Miss before any write.
	creds, err := store.Credentials(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, store.SetCredentials(ctx, Credentials{
		Username: "relay-service",
		Password: "s3cret",
	}))

	creds, err = store.Credentials(ctx)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "relay-service", creds.Username)
	assert.Equal(t, "s3cret", creds.Password)

	require.NoError(t, store.DeleteCredentials(ctx))
	creds, err = store.Credentials(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestRedisStore_CorruptCredentialsDropped(t *testing.T) {
	store, mr, cleanup := setupRedisStoreTest(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, mr.Set("fieldlink:vault:credentials", "{not json"))

	creds, err := store.Credentials(ctx)
	assert.Error(t, err)
	assert.Nil(t, creds)

	// The corrupt entry must be gone afterwards.
	assert.False(t, mr.Exists("fieldlink:vault:credentials"))
}

func TestRedisStore_ProfileSnapshotRoundTrip(t *testing.T) {
	store, _, cleanup := setupRedisStoreTest(t)
	defer cleanup()

	ctx := context.Background()
	snapshot := json.RawMessage(`{"id":"u1","role":"volunteer"}`)

	require.NoError(t, store.SetProfileSnapshot(ctx, snapshot))

	got, err := store.ProfileSnapshot(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(snapshot), string(got))
}

func TestRedisStore_Clear(t *testing.T) {
	store, _, cleanup := setupRedisStoreTest(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.SetCredentials(ctx, Credentials{Username: "a", Password: "b"}))
	require.NoError(t, store.SetProfileSnapshot(ctx, json.RawMessage(`{"id":"u1"}`)))

	require.NoError(t, store.Clear(ctx))

	creds, err := store.Credentials(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)

	snapshot, err := store.ProfileSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(RedisConfig{URL: "not-a-url"}, nil)
	assert.Error(t, err)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisStore(RedisConfig{URL: "redis://" + addr}, nil)
	assert.Error(t, err)
}
