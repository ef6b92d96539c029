package search_test

import (
	"context"
	"testing"

	"github.com/0x5457/signclip/internal/embeddings"
	"github.com/0x5457/signclip/internal/model/modeltest"
	"github.com/0x5457/signclip/internal/models"
	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/pose/posetest"
	"github.com/0x5457/signclip/internal/search"
	"github.com/0x5457/signclip/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *search.Service {
	t.Helper()
	e, err := embeddings.NewModelEmbedder(modeltest.Local(t))
	require.NoError(t, err)
	return &search.Service{Embedder: e, Scorer: e, Vector: memory.NewInMemoryVectorStore()}
}

func TestScoreBatch(t *testing.T) {
	s := newService(t)
	p := posetest.Holistic(4, 1)

	scores, err := s.ScoreBatch(context.Background(), []*pose.Pose{p, p}, []string{"random text", "<en> <ase>"})
	require.NoError(t, err)

	r, c := scores.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	// identical poses give identical rows
	assert.Equal(t, scores.RawRowView(0), scores.RawRowView(1))
}

func TestScoreBatchShape(t *testing.T) {
	s := newService(t)
	poses := []*pose.Pose{posetest.Holistic(2, 1), posetest.Holistic(3, 2), posetest.Holistic(4, 3)}

	scores, err := s.ScoreBatch(context.Background(), poses, []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	r, c := scores.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 4, c)
}

func TestScoreBatchEmpty(t *testing.T) {
	_, err := newService(t).ScoreBatch(context.Background(), nil, []string{"a"})
	assert.Error(t, err)
}

func TestGuessLanguage(t *testing.T) {
	s := newService(t)
	langs := []string{"ase", "gsg", "fsl", "ise", "bfi", "gss"}

	preds, err := s.GuessLanguage(context.Background(), posetest.Holistic(3, 5), langs)
	require.NoError(t, err)
	require.Len(t, preds, len(langs))

	var texts []string
	for i, p := range preds {
		texts = append(texts, p.Text)
		if i > 0 {
			assert.GreaterOrEqual(t, preds[i-1].Score, p.Score)
		}
	}
	var want []string
	for _, l := range langs {
		want = append(want, search.LanguagePrompt(l))
	}
	assert.ElementsMatch(t, want, texts)
}

func TestGuessLanguageDefaults(t *testing.T) {
	preds, err := newService(t).GuessLanguage(context.Background(), posetest.Holistic(2, 5), nil)
	require.NoError(t, err)
	assert.Len(t, preds, 41)
}

func TestGuessLanguageStableTies(t *testing.T) {
	s := &search.Service{Scorer: constScorer{}}
	preds, err := s.GuessLanguage(context.Background(), nil, []string{"b", "a", "c"})
	require.NoError(t, err)
	assert.Equal(t, "<en> <b> Athens", preds[0].Text)
	assert.Equal(t, "<en> <a> Athens", preds[1].Text)
	assert.Equal(t, "<en> <c> Athens", preds[2].Text)
}

type constScorer struct{}

func (constScorer) ScorePoseAndText(_ context.Context, _ *pose.Pose, text string) (string, float64, error) {
	return text, 1, nil
}

func TestSearch(t *testing.T) {
	s := newService(t)
	p := posetest.Holistic(3, 8)
	emb, err := s.Embedder.EmbedPoses(context.Background(), []*pose.Pose{p})
	require.NoError(t, err)
	require.NoError(t, s.Vector.Upsert(
		[]models.PoseEntry{{ID: "x", File: "x.pose"}},
		embeddings.Rows(emb),
	))

	hits, err := s.Search(context.Background(), "hello", 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "x.pose", hits[0].Entry.File)
}

func TestSearchWithoutStore(t *testing.T) {
	s := newService(t)
	s.Vector = nil
	_, err := s.Search(context.Background(), "hello", 3)
	assert.Error(t, err)
}
