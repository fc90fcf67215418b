package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeDeliversCurrentState(t *testing.T) {
	n := NewNotifier()

	var got []*Principal
	unsubscribe := n.Subscribe(func(p *Principal) {
		got = append(got, p)
	})
	defer unsubscribe()

	// New subscribers see the current (nil) state immediately.
	require.Len(t, got, 1)
	assert.Nil(t, got[0])

	n.Emit(&Principal{ID: "u1", Email: "a@x.com"})
	require.Len(t, got, 2)
	require.NotNil(t, got[1])
	assert.Equal(t, "u1", got[1].ID)
}

func TestNotifier_LateSubscriberSeesPrincipal(t *testing.T) {
	n := NewNotifier()
	n.Emit(&Principal{ID: "u2"})

	var got *Principal
	unsubscribe := n.Subscribe(func(p *Principal) {
		got = p
	})
	defer unsubscribe()

	require.NotNil(t, got)
	assert.Equal(t, "u2", got.ID)
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := NewNotifier()

	calls := 0
	unsubscribe := n.Subscribe(func(*Principal) { calls++ })
	unsubscribe()

	n.Emit(&Principal{ID: "u3"})
	assert.Equal(t, 1, calls, "only the initial replay should have fired")
}

func TestNotifier_SignOutEmitsNil(t *testing.T) {
	n := NewNotifier()
	n.Emit(&Principal{ID: "u4"})

	var got []*Principal
	defer n.Subscribe(func(p *Principal) { got = append(got, p) })()

	require.NoError(t, n.SignOut(context.Background()))
	require.Len(t, got, 2)
	assert.Nil(t, got[1])
	assert.Nil(t, n.Current())
}

func TestNotifier_ObserversGetCopies(t *testing.T) {
	n := NewNotifier()

	var got *Principal
	defer n.Subscribe(func(p *Principal) { got = p })()

	original := &Principal{ID: "u5", Name: "Jo"}
	n.Emit(original)

	require.NotNil(t, got)
	got.Name = "mutated"
	assert.Equal(t, "Jo", n.Current().Name)
	assert.Equal(t, "Jo", original.Name)
}
