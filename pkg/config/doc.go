// Package config provides application configuration management from
// environment variables and an optional YAML file.
//
// # Overview
//
// This package loads and validates configuration with sensible defaults for
// all settings. When FIELDLINK_CONFIG_FILE names a YAML file its values are
// loaded first, and environment variables override them.
//
// # Configuration Structure
//
// Identity provider settings:
//
//	FIELDLINK_ISSUER_URL="https://id.example.org/realms/field"
//	FIELDLINK_CLIENT_ID="fieldlink-mobile"
//	FIELDLINK_SHARED_USERNAME="field-client"
//	FIELDLINK_SHARED_PASSWORD="..."
//
// Service endpoints:
//
//	FIELDLINK_PROFILE_URL="https://profiles.example.org"
//	FIELDLINK_PROFILE_TIMEOUT="15s"
//	FIELDLINK_PROFILE_CACHE_TTL="5m"
//	FIELDLINK_BACKEND_URL="https://api.example.org"
//	FIELDLINK_BACKEND_TIMEOUT="30s"
//
// Vault settings:
//
//	FIELDLINK_VAULT_BACKEND="sqlite"  # sqlite, redis, memory
//	FIELDLINK_SQLITE_PATH="fieldlink.db"
//	FIELDLINK_REDIS_URL="redis://localhost:6379"
//	FIELDLINK_REDIS_NAMESPACE="fieldlink:vault"
//
// Observability settings:
//
//	FIELDLINK_LOG_LEVEL="info"  # debug, info, warn, error
//	FIELDLINK_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Backend: %s\n", cfg.Backend.BaseURL)
//	fmt.Printf("Vault: %s\n", cfg.Vault.Backend)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/vault: Uses vault configuration
//   - pkg/observability: Uses observability configuration
package config
