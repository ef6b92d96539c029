// Package factory assembles the indexing and search components without the
// fx container, for embedding signclip as a library.
package factory

import (
	"context"
	"errors"
	"fmt"

	"github.com/0x5457/signclip/internal/config"
	"github.com/0x5457/signclip/internal/embeddings"
	"github.com/0x5457/signclip/internal/indexer/pipeline"
	"github.com/0x5457/signclip/internal/model"
	"github.com/0x5457/signclip/internal/parser"
	"github.com/0x5457/signclip/internal/parser/poseparser"
	"github.com/0x5457/signclip/internal/search"
	"github.com/0x5457/signclip/internal/storage"
	"github.com/0x5457/signclip/internal/storage/memory"
	"github.com/0x5457/signclip/internal/storage/sqlite"
	"github.com/0x5457/signclip/internal/storage/sqlvec"
	"go.uber.org/zap"
)

// ComponentConfig holds configuration for creating components
type ComponentConfig struct {
	DBPath string
	Model  *config.File
	Logger *zap.Logger
	// InMemoryVectors keeps embeddings in process instead of sqlite-vec.
	InMemoryVectors bool
	Pipeline        pipeline.Options
}

// Components holds all the main components
type Components struct {
	Bundle   *model.Bundle
	Parser   parser.Parser
	Embedder *embeddings.ModelEmbedder
	Catalog  storage.CatalogStore
	VecStore storage.VectorStore
	Searcher *search.Service
	Indexer  *pipeline.Indexer

	closers []func() error
}

// CreateComponents loads the model and opens the stores named by cfg.
// Components created before a failure are released.
func CreateComponents(ctx context.Context, cfg ComponentConfig) (*Components, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("database path must be specified")
	}
	if cfg.Model == nil {
		return nil, fmt.Errorf("model configuration must be specified")
	}

	comps := &Components{Parser: poseparser.New()}
	if err := comps.open(ctx, cfg); err != nil {
		_ = comps.Cleanup()
		return nil, err
	}
	return comps, nil
}

func (c *Components) open(ctx context.Context, cfg ComponentConfig) error {
	bundle, err := model.Load(ctx, cfg.Model, cfg.Logger)
	if err != nil {
		return fmt.Errorf("load model failed: %w", err)
	}
	c.Bundle = bundle
	c.closers = append(c.closers, bundle.Close)

	c.Embedder, err = embeddings.NewModelEmbedder(bundle)
	if err != nil {
		return fmt.Errorf("create embedder failed: %w", err)
	}

	catalog, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("create catalog store failed: %w", err)
	}
	c.Catalog = catalog
	c.closers = append(c.closers, catalog.Close)

	if cfg.InMemoryVectors {
		c.VecStore = memory.NewInMemoryVectorStore()
	} else {
		vec, err := sqlvec.New(cfg.DBPath, cfg.Model.Model.EmbeddingDim)
		if err != nil {
			return fmt.Errorf("create vector store failed: %w", err)
		}
		c.VecStore = vec
		c.closers = append(c.closers, vec.Close)
	}

	c.Searcher = &search.Service{Embedder: c.Embedder, Scorer: c.Embedder, Vector: c.VecStore}
	c.Indexer = pipeline.New(c.Parser, c.Embedder, c.Catalog, c.VecStore, cfg.Pipeline)
	return nil
}

// Cleanup releases resources held by components, newest first
func (c *Components) Cleanup() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
