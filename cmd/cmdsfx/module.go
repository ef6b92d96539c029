package cmdsfx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/0x5457/signclip/internal/config/configfx"
	"github.com/0x5457/signclip/internal/embeddings"
	"github.com/0x5457/signclip/internal/indexer"
	"github.com/0x5457/signclip/internal/models"
	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/search"
	"github.com/cheggaaa/pb/v3"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// DefaultTexts are scored against the pose when no texts are given.
var DefaultTexts = []string{"random text", "<en> <ase>"}

// CommandRunner provides methods to run different application commands
type CommandRunner struct {
	out           io.Writer
	logger        *zap.Logger
	config        *configfx.Config
	embedder      embeddings.Embedder
	searchService *search.Service
	indexer       indexer.Indexer
	mcpServer     *server.MCPServer
}

// Params represents dependencies for command runner
type Params struct {
	fx.In

	Config        *configfx.Config
	Logger        *zap.Logger
	Embedder      embeddings.Embedder `optional:"true"`
	SearchService *search.Service     `optional:"true"`
	Indexer       indexer.Indexer     `optional:"true"`
	MCPServer     *server.MCPServer   `optional:"true"`
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(params Params) *CommandRunner {
	return &CommandRunner{
		out:           os.Stdout,
		logger:        params.Logger,
		config:        params.Config,
		embedder:      params.Embedder,
		searchService: params.SearchService,
		indexer:       params.Indexer,
		mcpServer:     params.MCPServer,
	}
}

// SetOutput redirects command output
func (r *CommandRunner) SetOutput(w io.Writer) { r.out = w }

func readPoses(paths []string) ([]*pose.Pose, error) {
	poses := make([]*pose.Pose, len(paths))
	for i, path := range paths {
		p, err := pose.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pose %s: %w", path, err)
		}
		poses[i] = p
	}
	return poses, nil
}

// RunDefault scores the pose twice against DefaultTexts and prints the
// score matrix
func (r *CommandRunner) RunDefault(ctx context.Context, posePath string) error {
	if r.searchService == nil {
		return fmt.Errorf("search service not available")
	}
	p, err := pose.ReadFile(posePath)
	if err != nil {
		return err
	}
	r.logger.Debug("Pose loaded",
		zap.String("file", posePath),
		zap.Int("frames", p.Body.Frames),
		zap.Int("points", p.Body.Points),
	)
	scores, err := r.searchService.ScoreBatch(ctx, []*pose.Pose{p, p}, DefaultTexts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "%v\n", mat.Formatted(scores, mat.Squeeze()))
	return err
}

// RunScore prints the score of the pose against every text
func (r *CommandRunner) RunScore(ctx context.Context, posePath string, texts []string) error {
	if r.searchService == nil {
		return fmt.Errorf("search service not available")
	}
	p, err := pose.ReadFile(posePath)
	if err != nil {
		return err
	}
	scores, err := r.searchService.ScoreBatch(ctx, []*pose.Pose{p}, texts)
	if err != nil {
		return err
	}
	for i, t := range texts {
		fmt.Fprintf(r.out, "%.4f\t%s\n", scores.At(0, i), t)
	}
	return nil
}

// RunGuessLanguage prints language predictions, best first
func (r *CommandRunner) RunGuessLanguage(ctx context.Context, posePath string, languages []string) error {
	if r.searchService == nil {
		return fmt.Errorf("search service not available")
	}
	p, err := pose.ReadFile(posePath)
	if err != nil {
		return err
	}
	preds, err := r.searchService.GuessLanguage(ctx, p, languages)
	if err != nil {
		return err
	}
	for _, pred := range preds {
		fmt.Fprintf(r.out, "%.4f\t%s\n", pred.Score, pred.Text)
	}
	return nil
}

// RunEmbedPoses prints pose embeddings as JSON rows
func (r *CommandRunner) RunEmbedPoses(ctx context.Context, paths []string) error {
	if r.embedder == nil {
		return fmt.Errorf("embedder not available")
	}
	poses, err := readPoses(paths)
	if err != nil {
		return err
	}
	m, err := r.embedder.EmbedPoses(ctx, poses)
	if err != nil {
		return err
	}
	return json.NewEncoder(r.out).Encode(embeddings.Rows(m))
}

// RunEmbedTexts prints text embeddings as JSON rows
func (r *CommandRunner) RunEmbedTexts(ctx context.Context, texts []string) error {
	if r.embedder == nil {
		return fmt.Errorf("embedder not available")
	}
	m, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	return json.NewEncoder(r.out).Encode(embeddings.Rows(m))
}

const progressTemplate = `{{ string . "prefix" }} {{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// RunIndex executes the index command
func (r *CommandRunner) RunIndex(ctx context.Context, dir string) error {
	if r.indexer == nil {
		return fmt.Errorf("indexer not available")
	}

	progress := make(chan models.IndexProgress)
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.indexer.IndexDirectory(ctx, dir, progress)
		close(progress)
	}()

	var bar *pb.ProgressBar
	var runID string
	for p := range progress {
		if bar == nil && p.TotalFiles > 0 {
			bar = pb.ProgressBarTemplate(progressTemplate).New(p.TotalFiles).SetWriter(r.out).Start()
		}
		if p.Stage == models.IndexStageDone {
			runID = p.Message
		}
		if bar == nil {
			continue
		}
		bar.Set("prefix", string(p.Stage))
		if p.Stage == models.IndexStageParse {
			bar.SetCurrent(int64(p.ParsedFiles))
		} else {
			bar.SetCurrent(int64(p.EmbeddedPoses))
		}
	}
	if bar != nil {
		bar.Finish()
	}
	if err := <-errCh; err != nil {
		return err
	}
	r.logger.Info("Index completed", zap.String("dir", dir), zap.String("run", runID))
	fmt.Fprintln(r.out, "index completed")
	return nil
}

// RunSearch executes text to pose search
func (r *CommandRunner) RunSearch(ctx context.Context, query string, topK int) error {
	if r.searchService == nil {
		return fmt.Errorf("search service not available")
	}

	hits, err := r.searchService.Search(ctx, query, topK)
	if err != nil {
		return err
	}
	for _, hit := range hits {
		fmt.Fprintf(r.out, "[%.3f] %s frames:%d fps:%g\n",
			hit.Score,
			hit.Entry.File,
			hit.Entry.Frames,
			hit.Entry.FPS,
		)
	}
	return nil
}

// RunMCPServer executes the MCP server
func (r *CommandRunner) RunMCPServer(transport, address string) error {
	if r.mcpServer == nil {
		return fmt.Errorf("MCP server not available")
	}

	switch transport {
	case "stdio":
		return server.ServeStdio(r.mcpServer)
	case "http":
		// Streamable HTTP server on address, default ":8080" if empty
		addr := address
		if addr == "" {
			addr = ":8080"
		}
		httpSrv := server.NewStreamableHTTPServer(r.mcpServer)
		return httpSrv.Start(addr)
	case "sse":
		// SSE server exposes two endpoints; default base path "/mcp"
		addr := address
		if addr == "" {
			addr = ":8080"
		}
		sseSrv := server.NewSSEServer(r.mcpServer,
			server.WithBaseURL(""),
			server.WithStaticBasePath("/mcp"),
		)
		return sseSrv.Start(addr)
	default:
		return fmt.Errorf(
			"unsupported transport: %s (supported: stdio, http, sse)",
			transport,
		)
	}
}

// Module provides command runner
var Module = fx.Module("commands",
	fx.Provide(NewCommandRunner),
)
