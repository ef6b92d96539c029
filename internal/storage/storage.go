package storage

import "github.com/0x5457/signclip/internal/models"

// CatalogStore keeps pose file metadata.
type CatalogStore interface {
	UpsertEntries(entries []models.PoseEntry) error
	DeleteEntriesByFile(file string) error
	FindByFile(file string) ([]models.PoseEntry, error)
	GetByID(id string) (*models.PoseEntry, error)
	List() ([]models.PoseEntry, error)
}

type VectorStore interface {
	Upsert(entries []models.PoseEntry, embeddings [][]float32) error
	DeleteByFile(file string) error
	Query(embedding []float32, topK int) ([]models.SemanticHit, error)
}
