package sqlvec_test

import (
	"path/filepath"
	"testing"

	"github.com/0x5457/signclip/internal/models"
	"github.com/0x5457/signclip/internal/storage/sqlvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreQuery(t *testing.T) {
	s, err := sqlvec.New(filepath.Join(t.TempDir(), "vec.db"), 3)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	entries := []models.PoseEntry{
		{ID: "a", File: "a.pose", Frames: 2, Components: []string{"POSE_LANDMARKS"}},
		{ID: "b", File: "b.pose", Frames: 5},
	}
	require.NoError(t, s.Upsert(entries, [][]float32{{1, 0, 0}, {0, 1, 0}}))

	hits, err := s.Query([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Entry.ID)
	assert.Equal(t, []string{"POSE_LANDMARKS"}, hits[0].Entry.Components)
	assert.InDelta(t, 1, hits[0].Score, 1e-5)
	assert.InDelta(t, 0, hits[1].Score, 1e-5)
}

func TestStoreReplaceAndDelete(t *testing.T) {
	s, err := sqlvec.New(filepath.Join(t.TempDir(), "vec.db"), 2)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Upsert([]models.PoseEntry{{ID: "a", File: "a.pose"}}, [][]float32{{1, 0}}))
	require.NoError(t, s.Upsert([]models.PoseEntry{{ID: "a", File: "a.pose"}}, [][]float32{{0, 1}}))

	hits, err := s.Query([]float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.InDelta(t, 1, hits[0].Score, 1e-5)

	require.NoError(t, s.DeleteByFile("a.pose"))
	hits, err = s.Query([]float32{0, 1}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStoreDimensionMismatch(t *testing.T) {
	s, err := sqlvec.New(filepath.Join(t.TempDir(), "vec.db"), 2)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	err = s.Upsert([]models.PoseEntry{{ID: "a", File: "a.pose"}}, [][]float32{{1, 0, 0}})
	assert.Error(t, err)
}

func TestStoreReplaceAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vec.db")
	entries := []models.PoseEntry{{ID: "a", File: "a.pose"}, {ID: "b", File: "b.pose"}}

	s, err := sqlvec.New(path, 2)
	require.NoError(t, err)
	require.NoError(t, s.Upsert(entries, [][]float32{{1, 0}, {0, 1}}))
	require.NoError(t, s.Close())

	s, err = sqlvec.New(path, 2)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	require.NoError(t, s.Upsert(entries, [][]float32{{0, 1}, {1, 0}}))

	hits, err := s.Query([]float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "b", hits[0].Entry.ID)
	assert.InDelta(t, 1, hits[0].Score, 1e-5)
}
