// Package embeddings turns poses and texts into pooled embeddings with the
// loaded model.
package embeddings

import (
	"context"

	"github.com/0x5457/signclip/internal/pose"
	"gonum.org/v1/gonum/mat"
)

// Embedder returns one embedding row per input.
type Embedder interface {
	EmbedPoses(ctx context.Context, poses []*pose.Pose) (*mat.Dense, error)
	EmbedTexts(ctx context.Context, texts []string) (*mat.Dense, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

// Rows converts an embedding matrix to float32 rows for storage.
func Rows(m *mat.Dense) [][]float32 {
	r, c := m.Dims()
	out := make([][]float32, r)
	for i := range out {
		out[i] = make([]float32, c)
		for j, v := range m.RawRowView(i) {
			out[i][j] = float32(v)
		}
	}
	return out
}
