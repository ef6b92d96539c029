package mcp

import (
	"context"
	"fmt"

	"github.com/0x5457/signclip/internal/indexer"
	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/search"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "signclip/mcp"
	serverVersion = "0.1.0"
)

// Server holds the services behind the MCP tools. Either may be nil, in
// which case the tools that need it return an error result.
type Server struct {
	searcher *search.Service
	indexer  indexer.Indexer
}

// New returns an MCP server exposing scoring, language guessing, search and
// indexing tools.
func New(searcher *search.Service, idx indexer.Indexer) *server.MCPServer {
	srv := &Server{searcher: searcher, indexer: idx}
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
	)

	s.AddTool(newScorePoseTextTool(), srv.handleScorePoseText)
	s.AddTool(newGuessLanguageTool(), srv.handleGuessLanguage)
	s.AddTool(newPoseSearchTool(), srv.handlePoseSearch)
	s.AddTool(newIndexPosesTool(), srv.handleIndexPoses)

	return s
}

// Tool definitions
func newScorePoseTextTool() mcp.Tool {
	return mcp.NewTool(
		"score_pose_text",
		mcp.WithDescription("Score a pose file against text prompts by embedding similarity"),
		mcp.WithString("pose_file", mcp.Description("Path to a .pose file"), mcp.Required()),
		mcp.WithArray("texts",
			mcp.Description("Text prompts, optionally prefixed with language tags like <en> <ase>"),
			mcp.Required(),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func newGuessLanguageTool() mcp.Tool {
	return mcp.NewTool(
		"guess_language",
		mcp.WithDescription("Guess the sign language of a pose file, best match first"),
		mcp.WithString("pose_file", mcp.Description("Path to a .pose file"), mcp.Required()),
		mcp.WithArray("languages",
			mcp.Description("Candidate language tags (defaults to all known sign languages)"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func newPoseSearchTool() mcp.Tool {
	return mcp.NewTool(
		"pose_search",
		mcp.WithDescription("Search indexed pose files by text"),
		mcp.WithString("query", mcp.Description("Text query"), mcp.Required()),
		mcp.WithNumber("top_k", mcp.Description("Top K results"), mcp.DefaultNumber(5)),
	)
}

func newIndexPosesTool() mcp.Tool {
	return mcp.NewTool(
		"index_poses",
		mcp.WithDescription("Index every .pose file under a directory"),
		mcp.WithString("dir", mcp.Description("Directory to index"), mcp.Required()),
	)
}

// ScoredText is one text prompt with its score.
type ScoredText struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Handlers
func (srv *Server) handleScorePoseText(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("pose_file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	texts, err := req.RequireStringSlice("texts")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if srv.searcher == nil {
		return mcp.NewToolResultError("search service not initialized"), nil
	}
	p, err := pose.ReadFile(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read pose failed: %v", err)), nil
	}
	scores, err := srv.searcher.ScoreBatch(ctx, []*pose.Pose{p}, texts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]ScoredText, len(texts))
	for i, t := range texts {
		out[i] = ScoredText{Text: t, Score: scores.At(0, i)}
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"pose_file": file,
		"scores":    out,
	}), nil
}

func (srv *Server) handleGuessLanguage(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	file, err := req.RequireString("pose_file")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	languages := req.GetStringSlice("languages", nil)
	if srv.searcher == nil {
		return mcp.NewToolResultError("search service not initialized"), nil
	}
	p, err := pose.ReadFile(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read pose failed: %v", err)), nil
	}
	preds, err := srv.searcher.GuessLanguage(ctx, p, languages)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"pose_file":   file,
		"predictions": preds,
	}), nil
}

func (srv *Server) handlePoseSearch(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	topK := req.GetInt("top_k", 5)
	if srv.searcher == nil {
		return mcp.NewToolResultError("search service not initialized"), nil
	}
	hits, err := srv.searcher.Search(ctx, query, topK)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"hits": hits}), nil
}

func (srv *Server) handleIndexPoses(
	ctx context.Context,
	req mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if srv.indexer == nil {
		return mcp.NewToolResultError("indexer not initialized"), nil
	}
	if err := srv.indexer.IndexDirectory(ctx, dir, nil); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index failed: %v", err)), nil
	}
	entries, err := srv.indexer.ListEntries()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"indexed": len(entries)}), nil
}
