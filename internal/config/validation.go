package config

import (
	"fmt"
	"regexp"
	"strings"
)

// tableNamePattern accepts plain lowercase SQL identifiers.
// The table name is interpolated into the distance-mode query (see
// internal/vectorstore), so it must never carry quoting or punctuation.
var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks the configuration for fatal problems.
// It fails fast: the first violated rule is returned.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY", ErrMissingAPIKey)
	}

	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}
	if strings.TrimSpace(c.EmbedderModel) == "" {
		return fmt.Errorf("%w: embedder model is empty", ErrInvalidEmbedderModel)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %.2f not in [0, 2]", ErrInvalidTemperature, c.Temperature)
	}

	if c.TopK < 1 || c.TopK > MaxTopK {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidTopK, c.TopK, MaxTopK)
	}

	if len(c.Collections) == 0 {
		return fmt.Errorf("%w: configure at least one purpose under collections", ErrNoCollections)
	}
	if _, ok := c.Collections[c.DefaultCollection]; !ok {
		return fmt.Errorf("%w: %q not present in collections mapping",
			ErrUnknownDefaultCollection, c.DefaultCollection)
	}

	switch c.Backend {
	case BackendLocal:
		if strings.TrimSpace(c.IndexPath) == "" {
			return fmt.Errorf("%w: index_path is required for the local backend", ErrMissingIndexPath)
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("%w: set DATABASE_URL for the postgres backend", ErrMissingDatabaseURL)
		}
		if !tableNamePattern.MatchString(c.TableName) {
			return fmt.Errorf("%w: %q", ErrInvalidTableName, c.TableName)
		}
	default:
		return fmt.Errorf("%w: %q (want %q or %q)",
			ErrInvalidBackend, c.Backend, BackendLocal, BackendPostgres)
	}

	return nil
}
