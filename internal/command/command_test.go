package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16-chars"

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadLine_Piped(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	_, err = w.WriteString("hunter2\nrest")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	line, err := readLine(r, true)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", string(line))

	line, err = readLine(r, false)
	require.NoError(t, err, "trailing input without newline is still a line")
	assert.Equal(t, "rest", string(line))
}

func TestLoadConfigFile_MissingDefaultFallsBack(t *testing.T) {
	t.Setenv("TODO_JWT_SECRET", testSecret)

	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, testSecret, cfg.JWTSecret)
}

func TestLoadConfigFile_MissingExplicitFails(t *testing.T) {
	t.Setenv("TODO_JWT_SECRET", testSecret)

	_, err := loadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMigrateCommand(t *testing.T) {
	for _, k := range []string{"TODO_DB_DRIVER", "TODO_DB_DSN", "DATABASE_URL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	path := writeConfig(t, dir, "jwt_secret: "+testSecret+"\ndatabase:\n  dsn: "+filepath.Join(dir, "todos.db")+"\n")

	var out bytes.Buffer
	cmd := RootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"migrate", "-c", path})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "schema version 1")
	assert.FileExists(t, filepath.Join(dir, "todos.db"))
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCommand().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "user"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, version())
}
