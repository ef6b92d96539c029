package appfx

import (
	"github.com/0x5457/signclip/cmd/cmdsfx"
	"github.com/0x5457/signclip/internal/config/configfx"
	"github.com/0x5457/signclip/internal/embeddings/embeddingsfx"
	"github.com/0x5457/signclip/internal/indexer/indexerfx"
	"github.com/0x5457/signclip/internal/logging/loggingfx"
	"github.com/0x5457/signclip/internal/mcp/mcpfx"
	"github.com/0x5457/signclip/internal/model/modelfx"
	"github.com/0x5457/signclip/internal/parser/parserfx"
	"github.com/0x5457/signclip/internal/search/searchfx"
	"github.com/0x5457/signclip/internal/storage/storagefx"
	"go.uber.org/fx"
)

// ScoringModule loads the model and scores poses against text. It has no
// storage, so the search service comes without a vector store.
var ScoringModule = fx.Options(
	configfx.Module,
	loggingfx.Module,
	modelfx.Module,
	embeddingsfx.Module,
	searchfx.Module,
	cmdsfx.Module,
)

// Module combines all application modules
var Module = fx.Options(
	ScoringModule,
	parserfx.Module,
	storagefx.Module,
	indexerfx.Module,
	mcpfx.Module,
)

// Options are the runtime values supplied to the configuration module
type Options struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
	PoseDir    string
}

func (o Options) supply() fx.Option {
	return fx.Supply(
		fx.Annotate(o.ConfigPath, fx.ResultTags(`name:"configPath"`)),
		fx.Annotate(o.DBPath, fx.ResultTags(`name:"dbPath"`)),
		fx.Annotate(o.LogLevel, fx.ResultTags(`name:"logLevel"`)),
		fx.Annotate(o.PoseDir, fx.ResultTags(`name:"poseDir"`)),
	)
}

// NewAppWithConfig creates an Fx app with the given configuration values.
// The MCP lifecycle pre-indexes PoseDir on start.
func NewAppWithConfig(opts Options, extra ...fx.Option) *fx.App {
	return fx.New(
		Module,
		opts.supply(),
		fx.Invoke(func(lc fx.Lifecycle, mcpLifecycle *mcpfx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStart: mcpLifecycle.Start,
				OnStop:  mcpLifecycle.Stop,
			})
		}),
		fx.Options(extra...),
	)
}

// NewScoringApp creates an Fx app for the one-shot scoring and embedding
// commands. Nothing is written to disk.
func NewScoringApp(opts Options, extra ...fx.Option) *fx.App {
	return fx.New(ScoringModule, opts.supply(), fx.Options(extra...))
}

// NewIndexApp creates an Fx app with storage and the indexer but without
// the MCP lifecycle.
func NewIndexApp(opts Options, extra ...fx.Option) *fx.App {
	return fx.New(Module, opts.supply(), fx.Options(extra...))
}

// NewApp creates an Fx app with default configuration
func NewApp(extra ...fx.Option) *fx.App {
	return fx.New(Module, fx.Options(extra...))
}
