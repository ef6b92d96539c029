package storagefx

import (
	"context"
	"fmt"

	"github.com/0x5457/signclip/internal/config"
	"github.com/0x5457/signclip/internal/config/configfx"
	"github.com/0x5457/signclip/internal/storage"
	"github.com/0x5457/signclip/internal/storage/sqlite"
	"github.com/0x5457/signclip/internal/storage/sqlvec"
	"go.uber.org/fx"
)

// Params represents dependencies for storage components
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *configfx.Config
	Model     *config.File
}

// NewCatalogStore creates a new pose catalog store instance
func NewCatalogStore(params Params) (storage.CatalogStore, error) {
	if params.Config.DBPath == "" {
		return nil, fmt.Errorf("database path must be specified")
	}
	store, err := sqlite.New(params.Config.DBPath)
	if err != nil {
		return nil, err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error { return store.Close() },
	})
	return store, nil
}

// NewVectorStore creates a new vector store instance
func NewVectorStore(params Params) (storage.VectorStore, error) {
	if params.Config.DBPath == "" {
		return nil, fmt.Errorf("database path must be specified")
	}
	store, err := sqlvec.New(params.Config.DBPath, params.Model.Model.EmbeddingDim)
	if err != nil {
		return nil, err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error { return store.Close() },
	})
	return store, nil
}

// Module provides storage components
var Module = fx.Module("storage",
	fx.Provide(
		NewCatalogStore,
		NewVectorStore,
	),
)
