package vault

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	creds, err := store.Credentials(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)

	require.NoError(t, store.SetCredentials(ctx, Credentials{Username: "a", Password: "b"}))
	require.NoError(t, store.SetProfileSnapshot(ctx, json.RawMessage(`{"id":"u1"}`)))

	creds, err = store.Credentials(ctx)
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "a", creds.Username)

	snapshot, err := store.ProfileSnapshot(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(snapshot))

	require.NoError(t, store.Clear(ctx))

	creds, err = store.Credentials(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds)
	snapshot, err = store.ProfileSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestMemoryStore_SnapshotIsCopied(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	original := json.RawMessage(`{"id":"u1"}`)
	require.NoError(t, store.SetProfileSnapshot(ctx, original))
	original[2] = 'X'

	snapshot, err := store.ProfileSnapshot(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1"}`, string(snapshot))
}
