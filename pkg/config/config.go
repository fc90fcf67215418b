package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/crisisready/fieldlink/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	// Identity provider configuration
	Identity IdentityConfig `yaml:"identity"`

	// Profile service configuration
	Profile ProfileConfig `yaml:"profile"`

	// Backend REST API configuration
	Backend BackendConfig `yaml:"backend"`

	// Credential vault configuration
	Vault VaultConfig `yaml:"vault"`

	// Observability configuration
	Observability ObservabilityConfig `yaml:"observability"`
}

// IdentityConfig holds OIDC identity provider settings
type IdentityConfig struct {
	IssuerURL string `yaml:"issuer_url"`
	ClientID  string `yaml:"client_id"`

	// SharedUsername and SharedPassword configure the single backend
	// account that all identity-provider sessions map onto.
	SharedUsername string `yaml:"shared_username"`
	SharedPassword string `yaml:"shared_password"`
}

// ProfileConfig holds profile service settings
type ProfileConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// BackendConfig holds the REST backend settings
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// VaultConfig holds credential vault settings
type VaultConfig struct {
	// Backend selects the vault implementation: sqlite, redis, or memory.
	Backend string `yaml:"backend"`

	// SQLite config
	SQLitePath string `yaml:"sqlite_path"`

	// Redis config
	RedisURL       string `yaml:"redis_url"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
	RedisNamespace string `yaml:"redis_namespace"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel `yaml:"-"`
	MetricsEnabled bool                   `yaml:"metrics_enabled"`

	// LogLevelName is the textual form used in YAML files; it is
	// resolved into LogLevel during load.
	LogLevelName string `yaml:"log_level"`
}

// LoadConfig loads configuration from environment variables. If
// FIELDLINK_CONFIG_FILE is set, the named YAML file is loaded first and
// environment variables override its values.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := getEnv("FIELDLINK_CONFIG_FILE", ""); path != "" {
		if err := loadConfigFile(path, cfg); err != nil {
			return nil, err
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Profile: ProfileConfig{
			Timeout:  15 * time.Second,
			CacheTTL: 5 * time.Minute,
		},
		Backend: BackendConfig{
			Timeout: 30 * time.Second,
		},
		Vault: VaultConfig{
			Backend:        "sqlite",
			SQLitePath:     "fieldlink.db",
			RedisNamespace: "fieldlink:vault",
		},
		Observability: ObservabilityConfig{
			LogLevel:       observability.InfoLevel,
			MetricsEnabled: true,
		},
	}
}

// loadConfigFile overlays values from a YAML file onto cfg
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.Observability.LogLevelName != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(cfg.Observability.LogLevelName)
	}
	return nil
}

// loadFromEnv overlays environment variables onto cfg
func loadFromEnv(cfg *Config) {
	// Identity config
	if issuer := getEnv("FIELDLINK_ISSUER_URL", ""); issuer != "" {
		cfg.Identity.IssuerURL = issuer
	}
	if clientID := getEnv("FIELDLINK_CLIENT_ID", ""); clientID != "" {
		cfg.Identity.ClientID = clientID
	}
	if username := getEnv("FIELDLINK_SHARED_USERNAME", ""); username != "" {
		cfg.Identity.SharedUsername = username
	}
	if password := getEnv("FIELDLINK_SHARED_PASSWORD", ""); password != "" {
		cfg.Identity.SharedPassword = password
	}

	// Profile service config
	if profileURL := getEnv("FIELDLINK_PROFILE_URL", ""); profileURL != "" {
		cfg.Profile.BaseURL = profileURL
	}
	if timeout := getEnvDuration("FIELDLINK_PROFILE_TIMEOUT", 0); timeout > 0 {
		cfg.Profile.Timeout = timeout
	}
	if ttl := getEnvDuration("FIELDLINK_PROFILE_CACHE_TTL", 0); ttl > 0 {
		cfg.Profile.CacheTTL = ttl
	}

	// Backend config
	if backendURL := getEnv("FIELDLINK_BACKEND_URL", ""); backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	if timeout := getEnvDuration("FIELDLINK_BACKEND_TIMEOUT", 0); timeout > 0 {
		cfg.Backend.Timeout = timeout
	}

	// Vault config
	if backend := getEnv("FIELDLINK_VAULT_BACKEND", ""); backend != "" {
		cfg.Vault.Backend = strings.ToLower(backend)
	}
	if path := getEnv("FIELDLINK_SQLITE_PATH", ""); path != "" {
		cfg.Vault.SQLitePath = path
	}
	if redisURL := getEnv("FIELDLINK_REDIS_URL", ""); redisURL != "" {
		cfg.Vault.RedisURL = redisURL
	}
	if redisPassword := getEnv("FIELDLINK_REDIS_PASSWORD", ""); redisPassword != "" {
		cfg.Vault.RedisPassword = redisPassword
	}
	if redisDB := getEnvInt("FIELDLINK_REDIS_DB", -1); redisDB >= 0 {
		cfg.Vault.RedisDB = redisDB
	}
	if namespace := getEnv("FIELDLINK_REDIS_NAMESPACE", ""); namespace != "" {
		cfg.Vault.RedisNamespace = namespace
	}

	// Observability config
	if level := getEnv("FIELDLINK_LOG_LEVEL", ""); level != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(level)
	}
	if enabled := getEnv("FIELDLINK_METRICS_ENABLED", ""); enabled != "" {
		cfg.Observability.MetricsEnabled = strings.ToLower(enabled) == "true" || enabled == "1"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Profile.BaseURL == "" {
		return fmt.Errorf("profile service URL is required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend URL is required")
	}

	switch c.Vault.Backend {
	case "sqlite":
		if c.Vault.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for sqlite vault")
		}
	case "redis":
		if c.Vault.RedisURL == "" {
			return fmt.Errorf("redis URL is required for redis vault")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid vault backend: %s (must be sqlite, redis, or memory)", c.Vault.Backend)
	}

	// The identity provider is optional (direct backend login works
	// without it), but when configured both fields must be present.
	if (c.Identity.IssuerURL == "") != (c.Identity.ClientID == "") {
		return fmt.Errorf("identity issuer URL and client ID must be set together")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
