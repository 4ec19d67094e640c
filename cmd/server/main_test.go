package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareaspendientes/tareas-api/internal/config"
	"github.com/tareaspendientes/tareas-api/internal/service/auth"
)

// withConfig makes every command load cfg instead of the environment.
func withConfig(t *testing.T, cfg *config.Config, err error) {
	t.Helper()
	orig := loadConfig
	loadConfig = func() (*config.Config, error) { return cfg, err }
	t.Cleanup(func() { loadConfig = orig })
}

func execute(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "sweep", "token"} {
		assert.True(t, names[want], want)
	}
}

func TestTokenCommand(t *testing.T) {
	cfg := testConfig("unused", uuid.New())

	t.Run("issues a valid token", func(t *testing.T) {
		withConfig(t, cfg, nil)
		userID := uuid.New()

		out, err := execute("token", userID.String())
		require.NoError(t, err)

		jwtService, err := auth.NewJWTService(cfg.Auth)
		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(context.Background(), strings.TrimSpace(out))
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
	})

	t.Run("rejects malformed user id", func(t *testing.T) {
		withConfig(t, nil, errors.New("must not be loaded"))

		_, err := execute("token", "ana")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid user ID")
	})

	t.Run("propagates config errors", func(t *testing.T) {
		withConfig(t, nil, errors.New("TAREAS_AUTH_JWT_SECRET missing"))

		_, err := execute("token", uuid.NewString())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load configuration")
	})
}

func TestMigrateCommand(t *testing.T) {
	t.Run("unknown command", func(t *testing.T) {
		withConfig(t, nil, errors.New("must not be loaded"))

		_, err := execute("migrate", "sideways")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown migrate command")
	})

	t.Run("missing command", func(t *testing.T) {
		_, err := execute("migrate")
		assert.Error(t, err)
	})

	t.Run("sqlite only supports up", func(t *testing.T) {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		withConfig(t, testConfig(dsn, uuid.New()), nil)

		_, err := execute("migrate", "status")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not supported for sqlite")

		_, err = execute("migrate", "up")
		assert.NoError(t, err)
	})
}

func TestSweepCommand(t *testing.T) {
	t.Run("fails without system user", func(t *testing.T) {
		dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
		withConfig(t, testConfig(dsn, uuid.New()), nil)

		_, err := execute("sweep")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "system user")
	})

	t.Run("reports generated tasks", func(t *testing.T) {
		env := newTestEnv(t)
		withConfig(t, env.app.config, nil)

		out, err := execute("sweep")
		require.NoError(t, err)
		assert.Contains(t, out, "generated=0 skipped=0 failed=0")
	})
}

func TestServeCommand_ConfigError(t *testing.T) {
	withConfig(t, nil, errors.New("invalid port"))

	_, err := execute("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
}
