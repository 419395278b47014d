package backend

import (
	"context"
	"path/filepath"
	"testing"

	"worklog/internal/localstore"
	"worklog/internal/remote"
)

func TestFactoryCreateBackend(t *testing.T) {
	factory := NewFactory(nil)
	ctx := context.Background()

	t.Run("durable", func(t *testing.T) {
		result, err := factory.CreateBackend(ctx, Config{
			Type:       Durable,
			APIBaseURL: "http://localhost:8081",
		})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if _, ok := result.Backend.(*remote.Client); !ok {
			t.Errorf("backend is %T, want *remote.Client", result.Backend)
		}
	})

	t.Run("ephemeral", func(t *testing.T) {
		result, err := factory.CreateBackend(ctx, Config{
			Type:     Ephemeral,
			DataFile: filepath.Join(t.TempDir(), "records.json"),
		})
		if err != nil {
			t.Fatalf("CreateBackend() error = %v", err)
		}
		if _, ok := result.Backend.(*localstore.Store); !ok {
			t.Errorf("backend is %T, want *localstore.Store", result.Backend)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		if _, err := factory.CreateBackend(ctx, Config{Type: Durable}); err == nil {
			t.Error("expected error for durable backend without API URL")
		}
	})
}
