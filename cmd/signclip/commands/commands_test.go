package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0x5457/signclip/internal/pose/posetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const localConfig = `name: local-test
model:
  backend: local
  embedding_dim: 16
  seed: 3
tokenizer:
  type: hash
`

type fixture struct {
	dir    string
	config string
	db     string
	pose   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(localConfig), 0o644))
	poseDir := filepath.Join(dir, "poses")
	require.NoError(t, os.MkdirAll(poseDir, 0o755))
	return fixture{
		dir:    poseDir,
		config: cfg,
		db:     filepath.Join(dir, "index.db"),
		pose:   posetest.WriteFile(t, poseDir, "hello.pose", posetest.Holistic(4, 1)),
	}
}

func (f fixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", f.config, "--db", f.db, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandScoresDefaultTexts(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, f.pose)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
	assert.NoFileExists(t, f.db)
}

func TestScoreCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "score", f.pose, "hello", "<en> <ase>")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "\thello"))
	assert.True(t, strings.HasSuffix(lines[1], "\t<en> <ase>"))
	assert.NoFileExists(t, f.db)
}

func TestScoreCommandNeedsText(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "score", f.pose)
	assert.Error(t, err)
}

func TestGuessLanguageCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "guess-language", f.pose, "--languages", "ase, bfi")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Contains(t, l, "Athens")
	}
}

func TestEmbedTextCommand(t *testing.T) {
	f := newFixture(t)
	out, err := f.run(t, "embed", "text", "hello", "world")
	require.NoError(t, err)

	var rows [][]float32
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 16)
}

func TestEmbedPoseMissingFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "embed", "pose", filepath.Join(f.dir, "missing.pose"))
	assert.Error(t, err)
}

func TestIndexThenSearch(t *testing.T) {
	f := newFixture(t)
	posetest.WriteFile(t, f.dir, "world.pose", posetest.Holistic(2, 9))

	out, err := f.run(t, "index", "--dir", f.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "index completed")

	out, err = f.run(t, "search", "hello", "--top-k", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], ".pose")
}

func TestIndexTwiceOverSameDB(t *testing.T) {
	f := newFixture(t)

	for range 2 {
		out, err := f.run(t, "index", "--dir", f.dir)
		require.NoError(t, err)
		assert.Contains(t, out, "index completed")
	}

	out, err := f.run(t, "search", "hello", "--top-k", "5")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
}

func TestIndexRequiresDir(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "index")
	assert.Error(t, err)
}

func TestMCPClientInprocListTools(t *testing.T) {
	f := newFixture(t)
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"mcp-client", "list-tools",
		"--transport", "inproc",
		"--server-config", f.config,
		"--server-db", f.db,
	})
	require.NoError(t, cmd.Execute())

	got := out.String()
	for _, name := range []string{"guess_language", "index_poses", "pose_search", "score_pose_text"} {
		assert.Contains(t, got, name)
	}
}

func TestMCPClientUnsupportedTransport(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"mcp-client", "list-tools", "--transport", "carrier-pigeon"})
	assert.Error(t, cmd.Execute())
}

func TestParseToolArgs(t *testing.T) {
	args, err := parseToolArgs([]string{"pose_file=a.pose", "texts=a, b", "top_k=3", "query=42"})
	require.NoError(t, err)
	assert.Equal(t, "a.pose", args["pose_file"])
	assert.Equal(t, []any{"a", "b"}, args["texts"])
	assert.Equal(t, 3, args["top_k"])
	assert.Equal(t, "42", args["query"])

	_, err = parseToolArgs([]string{"nokey"})
	assert.Error(t, err)
	_, err = parseToolArgs([]string{"top_k=x"})
	assert.Error(t, err)
}
