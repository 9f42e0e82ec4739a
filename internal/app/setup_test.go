package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vitrine-ai/vitrine/internal/config"
	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		GeminiAPIKey:      "test-key",
		ModelName:         config.DefaultModelName,
		EmbedderModel:     config.DefaultEmbedderModel,
		Temperature:       config.DefaultTemperature,
		Backend:           config.BackendLocal,
		TopK:              config.DefaultTopK,
		Collections:       map[string]string{"default": "produtos"},
		DefaultCollection: "default",
		IndexPath:         filepath.Join(t.TempDir(), "index"),
	}
}

func TestSetup_LocalCreate(t *testing.T) {
	a, err := Setup(context.Background(), localConfig(t), log.NewNop(), Options{CreateIndex: true})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	if a.Genkit == nil || a.Embedder == nil || a.Store == nil {
		t.Error("runtime components not initialized")
	}
	if a.Assembler == nil || a.Generator == nil || a.Catalog == nil {
		t.Error("pipeline components not initialized")
	}
	if len(a.Tools) != 2 {
		t.Errorf("len(Tools) = %d, want 2", len(a.Tools))
	}
	if a.Collections.Default() != "produtos" {
		t.Errorf("default collection = %q", a.Collections.Default())
	}
	if a.NewAgent() == nil {
		t.Error("NewAgent() = nil")
	}
}

func TestSetup_LocalMissingIndex(t *testing.T) {
	_, err := Setup(context.Background(), localConfig(t), log.NewNop(), Options{})
	if !vectorstore.IsNotFound(err) {
		t.Errorf("err = %v, want ErrIndexNotFound", err)
	}
}

func TestSetup_InvalidBackend(t *testing.T) {
	cfg := localConfig(t)
	cfg.Backend = "faiss"

	_, err := Setup(context.Background(), cfg, log.NewNop(), Options{})
	if !errors.Is(err, config.ErrInvalidBackend) {
		t.Errorf("err = %v, want ErrInvalidBackend", err)
	}
}

func TestSetup_NilConfig(t *testing.T) {
	_, err := Setup(context.Background(), nil, log.NewNop(), Options{})
	if !errors.Is(err, config.ErrConfigNil) {
		t.Errorf("err = %v, want ErrConfigNil", err)
	}
}

func TestSetup_UnknownDefaultCollection(t *testing.T) {
	cfg := localConfig(t)
	cfg.DefaultCollection = "inexistente"

	_, err := Setup(context.Background(), cfg, log.NewNop(), Options{CreateIndex: true})
	if !errors.Is(err, vectorstore.ErrUnknownCollection) {
		t.Errorf("err = %v, want ErrUnknownCollection", err)
	}
}
