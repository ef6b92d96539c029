package embeddingsfx

import (
	"github.com/0x5457/signclip/internal/embeddings"
	"github.com/0x5457/signclip/internal/model"
	"go.uber.org/fx"
)

// Params represents dependencies for embeddings components
type Params struct {
	fx.In

	Bundle *model.Bundle
}

// Result exposes the model embedder both concretely and as an Embedder
type Result struct {
	fx.Out

	ModelEmbedder *embeddings.ModelEmbedder
	Embedder      embeddings.Embedder
}

// NewEmbedder creates the embedder backed by the loaded model
func NewEmbedder(params Params) (Result, error) {
	e, err := embeddings.NewModelEmbedder(params.Bundle)
	if err != nil {
		return Result{}, err
	}
	return Result{ModelEmbedder: e, Embedder: e}, nil
}

// Module provides embeddings components
var Module = fx.Module("embeddings",
	fx.Provide(NewEmbedder),
)
