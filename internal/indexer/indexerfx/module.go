package indexerfx

import (
	"github.com/0x5457/signclip/internal/embeddings"
	"github.com/0x5457/signclip/internal/indexer"
	"github.com/0x5457/signclip/internal/indexer/pipeline"
	"github.com/0x5457/signclip/internal/parser"
	"github.com/0x5457/signclip/internal/storage"
	"go.uber.org/fx"
)

// Params represents dependencies for the indexer
type Params struct {
	fx.In

	Parser   parser.Parser
	Embedder embeddings.Embedder
	Catalog  storage.CatalogStore
	VecStore storage.VectorStore
}

// NewIndexer creates the pose indexing pipeline
func NewIndexer(params Params) indexer.Indexer {
	return pipeline.New(params.Parser, params.Embedder, params.Catalog, params.VecStore, pipeline.Options{})
}

// Module provides indexer components
var Module = fx.Module("indexer",
	fx.Provide(NewIndexer),
)
