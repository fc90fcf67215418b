package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Notifier fans a principal-change stream out to subscribers. Providers
// embed it; tests use it directly as a scriptable Provider.
//
// Delivery is synchronous on the emitting goroutine. Subscribers must not
// block and must not call back into the Notifier from their callback.
type Notifier struct {
	mu        sync.Mutex
	current   *Principal
	observers map[string]Callback
}

// NewNotifier creates a notifier with no principal and no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{
		observers: make(map[string]Callback),
	}
}

// Subscribe registers an observer and immediately delivers the current
// principal, matching the provider SDK convention of replaying the latest
// auth state to new listeners.
func (n *Notifier) Subscribe(fn Callback) func() {
	n.mu.Lock()
	id := uuid.NewString()
	n.observers[id] = fn
	current := n.current.Clone()
	n.mu.Unlock()

	fn(current)

	return func() {
		n.mu.Lock()
		delete(n.observers, id)
		n.mu.Unlock()
	}
}

// Emit publishes a new principal (or nil for sign-out) to all subscribers.
func (n *Notifier) Emit(p *Principal) {
	n.mu.Lock()
	n.current = p.Clone()
	observers := make([]Callback, 0, len(n.observers))
	for _, fn := range n.observers {
		observers = append(observers, fn)
	}
	n.mu.Unlock()

	for _, fn := range observers {
		fn(p.Clone())
	}
}

// Current returns the most recently emitted principal, or nil.
func (n *Notifier) Current() *Principal {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current.Clone()
}

// SignOut clears the current principal and notifies subscribers. The bare
// Notifier never fails; providers that talk to a real backend override this.
func (n *Notifier) SignOut(ctx context.Context) error {
	n.Emit(nil)
	return nil
}
