// Package profile models the user-profile document and its remote store.
//
// # Overview
//
// Profiles are documents keyed by principal id in the profile service.
// The store fetches, creates and partially updates them; reads and writes
// are mirrored into the credential vault so the UI can render a profile on
// cold start before any network round trip.
//
// # Partial Updates
//
// Update takes a typed ProfileUpdate whose nil fields are left untouched
// on the server (merge semantics, not replace).
//
// # Usage Example
//
//	store := profile.NewHTTPStore(profile.HTTPStoreConfig{
//		BaseURL: "https://profiles.example.org",
//	}, vaultStore, logger, metrics)
//
//	p, err := store.Fetch(ctx, "u1")
//	if errors.Is(err, profile.ErrNotFound) {
//		p, err = store.Create(ctx, "u1", profile.Seed{Role: profile.RoleVictim})
//	}
//
// # Related Packages
//
//   - pkg/session: drives fetch-or-create during profile resolution
//   - pkg/vault: receives the mirrored snapshot
package profile
