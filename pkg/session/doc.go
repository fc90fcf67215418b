// Package session reconciles the identity provider and the legacy REST
// backend into one logical session.
//
// # Overview
//
// The Coordinator owns the only session state in the client. It reacts to
// identity-provider events, resolves the user profile (falling back to a
// minimal profile built from principal fields when the profile service is
// unreachable), derives backend credentials through a pluggable policy,
// persists them in the vault, and notifies listeners after every
// transition.
//
// State machine:
//
//	Unauthenticated -> Resolving -> Authenticated   (provider event, LoginDirect)
//	Authenticated   -> Unauthenticated              (sign-out, logout, failed refresh)
//
// Every public operation leaves the session in exactly one of the three
// phases; no path stalls in Resolving.
//
// # Concurrency
//
// Refresh runs under a single-flight group: concurrent triggers coalesce
// onto the in-flight derivation and all receive its result, so a burst of
// 401s performs exactly one derivation. Listener callbacks run
// synchronously on the triggering goroutine after the coordinator lock is
// released; they must not call back into the coordinator to mutate state.
//
// # Usage Example
//
//	coord, err := session.New(session.Config{
//		Provider: idpAdapter,
//		Profiles: profileStore,
//		Vault:    vaultStore,
//		Derive:   session.SharedAccountPolicy(cfg.SharedAccount),
//	})
//	if err != nil { ... }
//	coord.Start()
//	defer coord.Close()
//
//	unsubscribe := coord.Subscribe(func(s session.State) {
//		// render s.Phase
//	})
//	defer unsubscribe()
//
// # Related Packages
//
//   - pkg/identity: the event source
//   - pkg/restexec: consumes BackendCredentials and Refresh
//   - pkg/vault: durable credential storage
package session
