package cli

import (
	"context"
	"fmt"

	"github.com/crisisready/fieldlink/pkg/config"
	"github.com/crisisready/fieldlink/pkg/observability"
	"github.com/crisisready/fieldlink/pkg/vault"
)

// openVault builds the vault store selected by the configuration
func openVault(cfg *config.Config, metrics *observability.Metrics) (vault.Store, error) {
	switch cfg.Vault.Backend {
	case "sqlite":
		return vault.NewSQLiteStore(cfg.Vault.SQLitePath, metrics)
	case "redis":
		return vault.NewRedisStore(vault.RedisConfig{
			URL:       cfg.Vault.RedisURL,
			Password:  cfg.Vault.RedisPassword,
			DB:        cfg.Vault.RedisDB,
			Namespace: cfg.Vault.RedisNamespace,
		}, metrics)
	case "memory":
		return vault.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown vault backend: %s", cfg.Vault.Backend)
	}
}

// vaultSource serves credentials straight from the vault. Refresh is not
// available outside an identity-provider session, so expired credentials
// require logging in again.
type vaultSource struct {
	store vault.Store
}

func (s *vaultSource) BackendCredentials() (*vault.Credentials, error) {
	return s.store.Credentials(context.Background())
}

func (s *vaultSource) Refresh(ctx context.Context) error {
	return fmt.Errorf("credentials rejected; run login again")
}
