package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefantagarski/event-service/internal/seeder"
	"github.com/stefantagarski/event-service/internal/testutil"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("LOG_DIR", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("SEED_FIXTURES_FILE", "")
	t.Setenv("MONGO_CONNECT_RETRIES", "1")
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestRootCommand_Tree(t *testing.T) {
	root := newRootCommand(&app{})

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"seed", "verify", "migrate"}, names)

	migrate, _, err := root.Find([]string{"migrate", "to"})
	require.NoError(t, err)
	assert.Equal(t, "to", migrate.Name())

	seed, _, err := root.Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, seed.Flags().Lookup("reset"))
	assert.NotNil(t, seed.Flags().Lookup("skip-samples"))
}

func TestRun_MigrateToRequiresVersion(t *testing.T) {
	envFile := isolateEnv(t)
	var out, errOut bytes.Buffer

	err := Run(context.Background(), []string{"--env-file", envFile, "migrate", "to"}, &out, &errOut)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "accepts 1 arg")
}

func TestRun_BadFixturesFile(t *testing.T) {
	envFile := isolateEnv(t)
	var out, errOut bytes.Buffer

	err := Run(context.Background(), []string{"--env-file", envFile, "seed", "--fixtures", filepath.Join(t.TempDir(), "nope.yaml")}, &out, &errOut)
	require.Error(t, err)
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "failed to open fixtures file")
}

func TestRun_LoadsEnvFile(t *testing.T) {
	isolateEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MONGO_URI=mongodb://127.0.0.1:1\nMONGO_CONNECT_TIMEOUT_SECONDS=1\n"), 0o644))
	// godotenv never overrides variables that are already set, even to "".
	for _, key := range []string{"MONGO_URI", "MONGO_CONNECT_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	var out, errOut bytes.Buffer

	err := Run(context.Background(), []string{"--env-file", envFile}, &out, &errOut)

	require.Error(t, err, "nothing listens on port 1")
	assert.Contains(t, errOut.String(), "Loaded environment variables from "+envFile)
	assert.NotContains(t, out.String(), seeder.SuccessMessage)
}

func TestRun_SeedAndVerifyAgainstMongo(t *testing.T) {
	uri := testutil.StartMongo(t)
	envFile := isolateEnv(t)
	t.Setenv("MONGO_URI", uri)
	t.Setenv("MONGO_CONNECT_RETRIES", "3")
	ctx := context.Background()

	var out, errOut bytes.Buffer
	require.NoError(t, Run(ctx, []string{"--env-file", envFile}, &out, &errOut))
	assert.Equal(t, "Database initialized successfully!\n", out.String())
	assert.Contains(t, errOut.String(), "not loaded, using environment variables")

	out.Reset()
	require.NoError(t, Run(ctx, []string{"--env-file", envFile, "verify"}, &out, &errOut))
	assert.Contains(t, out.String(), "OK")

	out.Reset()
	require.NoError(t, Run(ctx, []string{"--env-file", envFile, "migrate", "version"}, &out, &errOut))
	assert.Equal(t, "0 (dirty: false)\n", out.String())
}
