// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.vitrine/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: chat model, embedder model, sampling temperature
//   - Retrieval: backend selection, top-k, collection mapping
//   - Local backend: index directory
//   - Postgres backend: connection URL, table name
//
// Error handling uses sentinel errors so callers can check with errors.Is().
// Sensitive values (API key, connection URL) are masked in MarshalJSON/String.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates the Gemini API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the chat model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model name is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidTemperature indicates the sampling temperature is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidBackend indicates an unsupported vector store backend.
	ErrInvalidBackend = errors.New("invalid backend")

	// ErrMissingIndexPath indicates the local backend has no index directory.
	ErrMissingIndexPath = errors.New("missing index path")

	// ErrMissingDatabaseURL indicates the postgres backend has no connection URL.
	ErrMissingDatabaseURL = errors.New("missing database URL")

	// ErrInvalidTableName indicates the products table name is not a safe identifier.
	ErrInvalidTableName = errors.New("invalid table name")

	// ErrInvalidTopK indicates top-k is out of the accepted range.
	ErrInvalidTopK = errors.New("invalid top-k")

	// ErrNoCollections indicates the collection mapping is empty.
	ErrNoCollections = errors.New("no collections configured")

	// ErrUnknownDefaultCollection indicates default_collection names a purpose
	// that is absent from the collections mapping.
	ErrUnknownDefaultCollection = errors.New("unknown default collection purpose")
)

// Vector store backend identifiers used in Config.Backend.
const (
	// BackendLocal selects the chromem-go index persisted under IndexPath.
	BackendLocal = "local"

	// BackendPostgres selects the pgvector-backed store reached via DatabaseURL.
	BackendPostgres = "postgres"
)

const (
	// DefaultModelName is the chat model used for answer generation.
	DefaultModelName = "gemini-2.0-flash"

	// DefaultEmbedderModel produces the 768-dimension vectors the products
	// schema expects; see db/migrations.
	DefaultEmbedderModel = "text-embedding-004"

	// DefaultTemperature mirrors the deployment the catalog was tuned on.
	DefaultTemperature float32 = 1.0

	// DefaultTopK is the number of matches retrieved per query.
	DefaultTopK = 5

	// MaxTopK bounds retrieval regardless of caller input.
	MaxTopK = 10
)

// Config stores application configuration.
// SECURITY: sensitive fields are masked in MarshalJSON().
type Config struct {
	// AI configuration
	GeminiAPIKey  string  `mapstructure:"gemini_api_key" json:"gemini_api_key"` // SENSITIVE: masked in MarshalJSON
	ModelName     string  `mapstructure:"model_name" json:"model_name"`
	EmbedderModel string  `mapstructure:"embedder_model" json:"embedder_model"`
	Temperature   float32 `mapstructure:"temperature" json:"temperature"`

	// Retrieval configuration
	Backend string `mapstructure:"backend" json:"backend"` // "local" (default) or "postgres"
	TopK    int    `mapstructure:"top_k" json:"top_k"`

	// Collections maps a logical purpose (e.g. "default", "chunks_500") to a
	// concrete collection name. Queries always resolve through this mapping;
	// there is no positional fallback.
	Collections       map[string]string `mapstructure:"collections" json:"collections"`
	DefaultCollection string            `mapstructure:"default_collection" json:"default_collection"`

	// Local backend configuration
	IndexPath string `mapstructure:"index_path" json:"index_path"`

	// Postgres backend configuration
	DatabaseURL string `mapstructure:"database_url" json:"database_url"` // SENSITIVE: masked in MarshalJSON
	TableName   string `mapstructure:"table_name" json:"table_name"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".vitrine")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("temperature", DefaultTemperature)

	v.SetDefault("backend", BackendLocal)
	v.SetDefault("top_k", DefaultTopK)

	v.SetDefault("collections", map[string]string{"default": "produtos"})
	v.SetDefault("default_collection", "default")

	v.SetDefault("index_path", filepath.Join(configDir, "index"))
	v.SetDefault("table_name", "products")
}

// bindEnvVariables binds environment variables explicitly.
// Only secrets and deployment-level overrides come from the environment.
func bindEnvVariables(v *viper.Viper) {
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("gemini_api_key", "GEMINI_API_KEY")
	mustBind("database_url", "DATABASE_URL")

	mustBind("backend", "VITRINE_BACKEND")
	mustBind("model_name", "VITRINE_MODEL_NAME")
	mustBind("embedder_model", "VITRINE_EMBEDDER_MODEL")
	mustBind("index_path", "VITRINE_INDEX_PATH")
	mustBind("table_name", "VITRINE_TABLE_NAME")
	mustBind("default_collection", "VITRINE_DEFAULT_COLLECTION")
}

// FullModelName returns the provider-qualified model name for Genkit.
// A name already containing "/" is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	return "googleai/" + c.ModelName
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Short secrets are fully masked; longer ones keep two characters on each
// side for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// maskURL masks the userinfo portion of a connection URL.
// Unparseable URLs are masked entirely.
func maskURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return maskedValue
	}
	u.User = url.UserPassword(u.User.Username(), maskedValue)
	return u.String()
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
// Masked: GeminiAPIKey, DatabaseURL.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.GeminiAPIKey = maskSecret(a.GeminiAPIKey)
	a.DatabaseURL = maskURL(a.DatabaseURL)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
