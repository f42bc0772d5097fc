package testsupport

import (
	"testing"

	"carprice/internal/config"
	"carprice/internal/registry"
)

// MustOpenStore opens the model registry for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *registry.Store {
	t.Helper()

	store, err := registry.Open(cfg.RegistryPath())
	if err != nil {
		t.Fatalf("registry.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
