package mcp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/0x5457/signclip/internal/embeddings"
	"github.com/0x5457/signclip/internal/indexer/pipeline"
	"github.com/0x5457/signclip/internal/model/modeltest"
	"github.com/0x5457/signclip/internal/parser/poseparser"
	"github.com/0x5457/signclip/internal/pose/posetest"
	"github.com/0x5457/signclip/internal/search"
	"github.com/0x5457/signclip/internal/storage/memory"
	"github.com/0x5457/signclip/internal/storage/sqlite"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	e, err := embeddings.NewModelEmbedder(modeltest.Local(t))
	require.NoError(t, err)
	vec := memory.NewInMemoryVectorStore()
	catalog, err := sqlite.New(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close() })
	return &Server{
		searcher: &search.Service{Embedder: e, Scorer: e, Vector: vec},
		indexer:  pipeline.New(poseparser.New(), e, catalog, vec, pipeline.Options{}),
	}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(nil, nil))
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		toolFunc func() mcp.Tool
		required []string
	}{
		{"score_pose_text", newScorePoseTextTool, []string{"pose_file", "texts"}},
		{"guess_language", newGuessLanguageTool, []string{"pose_file"}},
		{"pose_search", newPoseSearchTool, []string{"query"}},
		{"index_poses", newIndexPosesTool, []string{"dir"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := tt.toolFunc()
			assert.Equal(t, tt.name, tool.Name)
			assert.NotEmpty(t, tool.Description)
			for _, param := range tt.required {
				assert.Contains(t, tool.InputSchema.Properties, param)
				assert.Contains(t, tool.InputSchema.Required, param)
			}
		})
	}
}

func TestHandlersMissingParams(t *testing.T) {
	ctx := context.Background()
	srv := &Server{}
	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"score_pose_text": srv.handleScorePoseText,
		"guess_language":  srv.handleGuessLanguage,
		"pose_search":     srv.handlePoseSearch,
		"index_poses":     srv.handleIndexPoses,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			result, err := h(ctx, callRequest(name, map[string]any{}))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.NotEmpty(t, result.Content)
		})
	}
}

func TestHandlersUninitialized(t *testing.T) {
	srv := &Server{}
	result, err := srv.handlePoseSearch(context.Background(), callRequest("pose_search", map[string]any{"query": "x"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleScorePoseText(t *testing.T) {
	srv := newTestServer(t)
	file := posetest.WriteFile(t, t.TempDir(), "a.pose", posetest.Holistic(3, 1))

	result, err := srv.handleScorePoseText(context.Background(), callRequest("score_pose_text", map[string]any{
		"pose_file": file,
		"texts":     []any{"random text", "<en> <ase>"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	content := result.StructuredContent.(map[string]any)
	scores := content["scores"].([]ScoredText)
	require.Len(t, scores, 2)
	assert.Equal(t, "<en> <ase>", scores[1].Text)
}

func TestHandleScorePoseTextMissingFile(t *testing.T) {
	srv := newTestServer(t)
	result, err := srv.handleScorePoseText(context.Background(), callRequest("score_pose_text", map[string]any{
		"pose_file": filepath.Join(t.TempDir(), "missing.pose"),
		"texts":     []any{"x"},
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGuessLanguage(t *testing.T) {
	srv := newTestServer(t)
	file := posetest.WriteFile(t, t.TempDir(), "a.pose", posetest.Holistic(3, 1))

	result, err := srv.handleGuessLanguage(context.Background(), callRequest("guess_language", map[string]any{
		"pose_file": file,
		"languages": []any{"ase", "gsg", "fsl"},
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	content := result.StructuredContent.(map[string]any)
	preds := content["predictions"].([]search.Prediction)
	assert.Len(t, preds, 3)
}

func TestHandleIndexAndSearch(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()
	posetest.WriteFile(t, dir, "a.pose", posetest.Holistic(3, 1))

	result, err := srv.handleIndexPoses(context.Background(), callRequest("index_poses", map[string]any{"dir": dir}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, 1, result.StructuredContent.(map[string]any)["indexed"])

	result, err = srv.handlePoseSearch(context.Background(), callRequest("pose_search", map[string]any{
		"query": "<en> <ase> Athens",
		"top_k": 3,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.NotEmpty(t, result.StructuredContent)
}
