package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/0x5457/signclip/internal/models"
	"gonum.org/v1/gonum/floats"
)

type item struct {
	entry models.PoseEntry
	vec   []float64
}

// InMemoryVectorStore ranks pose embeddings by cosine similarity.
type InMemoryVectorStore struct {
	mu   sync.RWMutex
	data map[string][]item // file -> items
}

func NewInMemoryVectorStore() *InMemoryVectorStore {
	return &InMemoryVectorStore{data: make(map[string][]item)}
}

func (s *InMemoryVectorStore) Upsert(entries []models.PoseEntry, embeddings [][]float32) error {
	if len(entries) != len(embeddings) {
		return fmt.Errorf("entries and embeddings length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// group by file
	tmp := make(map[string][]item)
	for i, e := range entries {
		tmp[e.File] = append(tmp[e.File], item{entry: e, vec: widen(embeddings[i])})
	}
	for file, items := range tmp {
		// drop existing entries with the same IDs
		idToNew := make(map[string]struct{}, len(items))
		for _, it := range items {
			idToNew[it.entry.ID] = struct{}{}
		}
		var merged []item
		for _, it := range s.data[file] {
			if _, ok := idToNew[it.entry.ID]; !ok {
				merged = append(merged, it)
			}
		}
		s.data[file] = append(merged, items...)
	}
	return nil
}

func (s *InMemoryVectorStore) DeleteByFile(file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, file)
	return nil
}

func (s *InMemoryVectorStore) Query(embedding []float32, topK int) ([]models.SemanticHit, error) {
	if topK <= 0 {
		topK = 5
	}
	q := widen(embedding)
	s.mu.RLock()
	var hits []models.SemanticHit
	for _, items := range s.data {
		for _, it := range items {
			hits = append(hits, models.SemanticHit{Entry: it.entry, Score: cosine(it.vec, q)})
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Entry.ID < hits[j].Entry.ID
	})
	if topK < len(hits) {
		hits = hits[:topK]
	}
	return hits, nil
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func cosine(a, b []float64) float32 {
	if len(a) != len(b) {
		return 0
	}
	den := floats.Norm(a, 2) * floats.Norm(b, 2)
	if den == 0 {
		return 0
	}
	return float32(floats.Dot(a, b) / den)
}
