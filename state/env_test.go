package state

import (
	"context"
	"testing"
)

func TestEnvFromContext(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		ctx := ContextWithEnv(context.Background())
		env := EnvFromContext(ctx)
		if env == nil {
			t.Fatal("no env in context")
		}
		if env.Log == nil {
			t.Fatal("env has no default logger")
		}
		if env.Uptime() < 0 {
			t.Fatal("uptime went backwards")
		}
	})

	t.Run("missing_env_panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic")
			}
		}()
		EnvFromContext(context.Background())
	})
}
