// Package vault is the durable store for derived backend credentials and
// the latest profile snapshot.
//
// # Overview
//
// The session coordinator is the only writer. Two logical entries exist:
// the backend credential pair and a JSON snapshot of the signed-in profile.
// Non-auth UI code may read the snapshot for cold-start rendering, but a
// session is never silently restored from the vault; only a provider event
// or an explicit login establishes one.
//
// # Backends
//
// SQLiteStore keeps entries in a single on-device database file and is the
// default for the mobile shell. RedisStore serves shared dev and test
// deployments. MemoryStore is a volatile double for unit tests.
//
// # Usage Example
//
//	store, err := vault.NewSQLiteStore("/data/fieldlink/vault.db")
//	if err != nil { ... }
//	defer store.Close()
//
//	err = store.SetCredentials(ctx, vault.Credentials{
//		Username: "relay-service",
//		Password: secret,
//	})
//
// # Related Packages
//
//   - pkg/session: the single writer
//   - pkg/profile: mirrors fetched profiles into the snapshot entry
package vault
