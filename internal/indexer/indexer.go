package indexer

import (
	"context"

	"github.com/0x5457/signclip/internal/models"
)

type Indexer interface {
	IndexDirectory(ctx context.Context, root string, progress chan<- models.IndexProgress) error
	IndexFile(ctx context.Context, path string) error
	SearchSemantic(ctx context.Context, query string, topK int) ([]models.SemanticHit, error)
	ListEntries() ([]models.PoseEntry, error)
}
