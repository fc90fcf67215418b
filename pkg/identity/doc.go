// Package identity adapts the external identity provider into a
// principal-or-nil event stream for the session coordinator.
//
// # Overview
//
// The identity provider owns the interactive sign-in flow (system browser,
// biometrics, whatever the app shell wires up). This package only observes
// the outcome: a Provider emits the current Principal after sign-in and nil
// after sign-out. It owns no retry policy; transient provider failures are
// the provider SDK's problem.
//
// # Providers
//
// OIDCAdapter verifies raw ID tokens handed over by the app shell against
// the provider's discovery document and maps claims to a Principal through
// an AttributeMap. Notifier is the fan-out primitive every provider embeds;
// it can also stand alone as a scriptable provider in tests.
//
// # Usage Example
//
//	adapter, err := identity.NewOIDCAdapter(ctx, identity.OIDCConfig{
//		IssuerURL: "https://id.example.org",
//		ClientID:  "fieldlink-mobile",
//	})
//	if err != nil { ... }
//
//	unsubscribe := adapter.Subscribe(func(p *identity.Principal) {
//		// p is nil after sign-out
//	})
//	defer unsubscribe()
//
//	// After the app shell completes the browser flow:
//	if err := adapter.HandleToken(ctx, rawIDToken); err != nil { ... }
//
// # Related Packages
//
//   - pkg/session: consumes the event stream and owns session state
package identity
