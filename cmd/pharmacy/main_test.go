package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/s4m/pharmacy/auth"
	"github.com/s4m/pharmacy/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "pharmacy version dev")
	assert.Contains(t, out, "Go version:")
}

func TestHashPasswordCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, out string)
		wantErr bool
	}{
		{
			name: "default sha256",
			args: []string{"hash-password", "admin123"},
			check: func(t *testing.T, out string) {
				assert.Equal(t, "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9\n", out)
			},
		},
		{
			name: "bcrypt",
			args: []string{"hash-password", "--scheme", "bcrypt", "--cost", "4", "admin123"},
			check: func(t *testing.T, out string) {
				hash := strings.TrimSpace(out)
				assert.True(t, strings.HasPrefix(hash, "$2a$"), hash)
				assert.True(t, auth.NewBcryptHasher(4).Verify("admin123", hash))
			},
		},
		{
			name:    "unknown scheme",
			args:    []string{"hash-password", "--scheme", "md5", "admin123"},
			wantErr: true,
		},
		{
			name:    "missing argument",
			args:    []string{"hash-password"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, out)
		})
	}
}

func TestInitDBCommand(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "pharmacy.db")
	t.Setenv("PHARMACY_DATABASE_DRIVER", "sqlite")
	t.Setenv("PHARMACY_DATABASE_PATH", dbPath)
	t.Setenv("PHARMACY_LOG_LEVEL", "error")

	// Act
	out, err := execute(t, "init-db", "--config-dir", dir)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "database "+dbPath+" ready (sqlite)")
	_, statErr := os.Stat(dbPath)
	assert.NoError(t, statErr)

	out, err = execute(t, "init-db", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ready")
}

func TestInitDBCommandReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-env-file.db")
	envFile := "PHARMACY_DATABASE_DRIVER=sqlite\nPHARMACY_DATABASE_PATH=" + dbPath + "\nPHARMACY_LOG_LEVEL=error\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envFile), 0o600))
	// godotenv never overrides variables that are already set.
	for _, key := range []string{"PHARMACY_DATABASE_DRIVER", "PHARMACY_DATABASE_PATH", "PHARMACY_LOG_LEVEL"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	out, err := execute(t, "init-db", "--config-dir", dir)

	require.NoError(t, err)
	assert.Contains(t, out, dbPath)
}

func TestServeGraphIsComplete(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "pharmacy.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.NoError(t, fx.ValidateApp(serveOptions(cfg, logger)))
}
