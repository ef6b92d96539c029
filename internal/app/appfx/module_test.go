package appfx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/0x5457/signclip/cmd/cmdsfx"
	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/pose/posetest"
	"github.com/0x5457/signclip/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

const localConfig = `name: local-test
model:
  backend: local
  embedding_dim: 16
  seed: 3
tokenizer:
  type: hash
`

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(localConfig), 0o644))
	return path
}

func TestAppModule(t *testing.T) {
	// Test that all modules can be loaded together
	tmpDir := t.TempDir()

	var runner *cmdsfx.CommandRunner
	var svc *search.Service

	app := NewApp(
		Options{
			ConfigPath: writeConfig(t, tmpDir),
			DBPath:     filepath.Join(tmpDir, "test.db"),
			LogLevel:   "error",
		}.supply(),
		fx.Populate(&runner, &svc),
	)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer func() {
		require.NoError(t, app.Stop(ctx))
	}()

	assert.NotNil(t, runner)
	require.NotNil(t, svc)
	assert.NotNil(t, svc.Vector)
}

func TestNewAppWithConfigPreIndexes(t *testing.T) {
	tmpDir := t.TempDir()
	poseDir := filepath.Join(tmpDir, "poses")
	require.NoError(t, os.MkdirAll(poseDir, 0o755))
	posetest.WriteFile(t, poseDir, "a.pose", posetest.Holistic(3, 1))

	var svc *search.Service
	app := NewAppWithConfig(Options{
		ConfigPath: writeConfig(t, tmpDir),
		DBPath:     filepath.Join(tmpDir, "test.db"),
		LogLevel:   "error",
		PoseDir:    poseDir,
	}, fx.Populate(&svc))

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer func() {
		require.NoError(t, app.Stop(ctx))
	}()

	hits, err := svc.Search(ctx, "<en> <ase> Athens", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, filepath.Join(poseDir, "a.pose"), hits[0].Entry.File)
}

func TestAppMissingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	app := NewApp(Options{
		ConfigPath: filepath.Join(tmpDir, "missing.yaml"),
		DBPath:     filepath.Join(tmpDir, "test.db"),
	}.supply(), fx.Invoke(func(*cmdsfx.CommandRunner) {}))
	assert.Error(t, app.Err())
}

func TestScoringAppHasNoStorage(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	var runner *cmdsfx.CommandRunner
	var svc *search.Service
	app := NewScoringApp(Options{
		ConfigPath: writeConfig(t, tmpDir),
		DBPath:     dbPath,
		LogLevel:   "error",
	}, fx.Populate(&runner, &svc))

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	require.NotNil(t, runner)
	require.NotNil(t, svc)
	assert.Nil(t, svc.Vector)

	scores, err := svc.ScoreBatch(ctx, []*pose.Pose{posetest.Holistic(3, 1)}, cmdsfx.DefaultTexts)
	require.NoError(t, err)
	r, c := scores.Dims()
	assert.Equal(t, 1, r)
	assert.Equal(t, 2, c)

	require.NoError(t, app.Stop(ctx))
	assert.NoFileExists(t, dbPath)
}
