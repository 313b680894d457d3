package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-app-go/pkg/logger"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDotEnvLayersFromParentDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), "DB_DRIVER=postgres\nHTTP_PORT=9000\nOUTBOX_BATCH_SIZE=10\n")
	writeFile(t, filepath.Join(root, ".env.local"), "DB_DRIVER=sqlite\n")
	nested := filepath.Join(root, "cmd", "rental-app")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	unsetEnv(t, "ENV", "ENV_FILE", "DB_DRIVER", "OUTBOX_BATCH_SIZE")
	t.Setenv("HTTP_PORT", "7000")

	paths, err := loadDotEnv(logger.NewNop())
	require.NoError(t, err)
	assert.Len(t, paths, 2)
	assert.Equal(t, "sqlite", os.Getenv("DB_DRIVER"), ".env.local wins over .env")
	assert.Equal(t, "10", os.Getenv("OUTBOX_BATCH_SIZE"))
	assert.Equal(t, "7000", os.Getenv("HTTP_PORT"), "process env wins over files")
}

func TestDotEnvEnvironmentLayer(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".env"), "LOG_LEVEL=info\n")
	writeFile(t, filepath.Join(root, ".env.test"), "LOG_LEVEL=debug\n")
	chdir(t, root)

	unsetEnv(t, "ENV_FILE", "LOG_LEVEL")
	t.Setenv("ENV", "test")

	_, err := loadDotEnv(logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
}

func TestDotEnvExplicitFileMustExist(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := loadDotEnv(logger.NewNop())
	require.Error(t, err)
}

func TestDotEnvNothingFound(t *testing.T) {
	chdir(t, t.TempDir())
	unsetEnv(t, "ENV", "ENV_FILE")

	paths, err := loadDotEnv(logger.NewNop())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
