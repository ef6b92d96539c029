package memory_test

import (
	"testing"

	"github.com/0x5457/signclip/internal/models"
	"github.com/0x5457/signclip/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryVectorStore(t *testing.T) {
	s := memory.NewInMemoryVectorStore()
	entries := []models.PoseEntry{
		{ID: "a", File: "a.pose"},
		{ID: "b", File: "b.pose"},
		{ID: "c", File: "b.pose"},
	}
	vecs := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	require.NoError(t, s.Upsert(entries, vecs))

	hits, err := s.Query([]float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Entry.ID)
	assert.InDelta(t, 1, hits[0].Score, 1e-6)
	assert.Equal(t, "c", hits[1].Entry.ID)

	require.NoError(t, s.DeleteByFile("a.pose"))
	hits, err = s.Query([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
	assert.Equal(t, "c", hits[0].Entry.ID)
}

func TestInMemoryVectorStoreReplacesIDs(t *testing.T) {
	s := memory.NewInMemoryVectorStore()
	require.NoError(t, s.Upsert([]models.PoseEntry{{ID: "a", File: "a.pose"}}, [][]float32{{1, 0}}))
	require.NoError(t, s.Upsert([]models.PoseEntry{{ID: "a", File: "a.pose", Frames: 3}}, [][]float32{{0, 1}}))

	hits, err := s.Query([]float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 3, hits[0].Entry.Frames)
}

func TestInMemoryVectorStoreMismatch(t *testing.T) {
	s := memory.NewInMemoryVectorStore()
	err := s.Upsert([]models.PoseEntry{{ID: "a"}}, nil)
	assert.Error(t, err)
}
