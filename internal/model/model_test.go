package model_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0x5457/signclip/internal/config"
	"github.com/0x5457/signclip/internal/model"
	"github.com/0x5457/signclip/internal/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testInput(t *testing.T, prompt string) model.Input {
	t.Helper()
	al := &text.Aligner{MaxLen: 16, MaxVideoLen: 8, CLSTokenID: 101, SEPTokenID: 102}
	enc, err := text.NewPreprocessor(text.NewHash(0), al).Preprocess(prompt)
	require.NoError(t, err)
	frames := mat.NewDense(2, 4, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	return model.Input{PoseFrames: frames, Text: enc}
}

func TestLocalModelDeterministic(t *testing.T) {
	m := model.NewLocal(16, 3)
	in := testInput(t, "<en> <ase> hello")
	in.ReturnScore = true

	a, err := m.Forward(context.Background(), in)
	require.NoError(t, err)
	b, err := model.NewLocal(16, 3).Forward(context.Background(), in)
	require.NoError(t, err)

	assert.Len(t, a.PooledVideo, 16)
	assert.Len(t, a.PooledText, 16)
	assert.Equal(t, a, b)
	assert.InDelta(t, model.Dot(a.PooledVideo, a.PooledText), a.Score, 1e-9)
	assert.InDelta(t, 1, model.Dot(a.PooledVideo, a.PooledVideo), 1e-5)
}

func TestLocalModelTextDependsOnTokens(t *testing.T) {
	m := model.NewLocal(16, 3)
	a, err := m.Forward(context.Background(), testInput(t, "<en> <ase>"))
	require.NoError(t, err)
	b, err := m.Forward(context.Background(), testInput(t, "random text"))
	require.NoError(t, err)
	assert.NotEqual(t, a.PooledText, b.PooledText)
	assert.Equal(t, a.PooledVideo, b.PooledVideo)
}

func TestRemoteModel(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pooled_video":[1,0],"pooled_text":[0.5,0.5]}`))
	}))
	defer srv.Close()

	in := testInput(t, "hello")
	in.ReturnScore = true
	out, err := model.NewRemote(srv.URL).Forward(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 0}, out.PooledVideo)
	assert.InDelta(t, 0.5, out.Score, 1e-9)
	assert.Len(t, got["pose_frames"], 2)
	assert.Len(t, got["caps"], 8)
	assert.Equal(t, true, got["return_score"])
}

func TestRemoteModelServerScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pooled_video":[1,0],"pooled_text":[1,0],"score":42}`))
	}))
	defer srv.Close()

	in := testInput(t, "hello")
	in.ReturnScore = true
	out, err := model.NewRemote(srv.URL).Forward(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 42.0, out.Score)
}

func TestRemoteModelError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := model.NewRemote(srv.URL).Forward(context.Background(), testInput(t, "hello"))
	assert.ErrorContains(t, err, "500")
}

func TestLoad(t *testing.T) {
	cfg := &config.File{
		Name:       "test",
		Model:      config.ModelConfig{Backend: config.BackendLocal, EmbeddingDim: 8, Seed: 1},
		Tokenizer:  config.TokenizerConfig{Type: config.TokenizerHash},
		Aligner:    config.AlignerConfig{MaxLen: 16, MaxVideoLen: 8},
		Preprocess: config.PreprocessConfig{FeatureDim: 534},
	}
	b, err := model.Load(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	assert.Equal(t, "local-fixed", b.Model.Name())
	assert.Equal(t, 8, b.Text.Aligner.TextLen())
	assert.Equal(t, text.DefaultCLSTokenID, b.Text.Aligner.CLSTokenID)
	assert.Equal(t, 534, b.FeatureDim)
}

func TestLoadUnknownBackend(t *testing.T) {
	cfg := &config.File{
		Model:     config.ModelConfig{Backend: "tpu"},
		Tokenizer: config.TokenizerConfig{Type: config.TokenizerHash},
		Aligner:   config.AlignerConfig{MaxLen: 16, MaxVideoLen: 8},
	}
	_, err := model.Load(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, model.ErrUnknownBackend)
}

func TestLoadBadAligner(t *testing.T) {
	cfg := &config.File{
		Model:     config.ModelConfig{Backend: config.BackendLocal, EmbeddingDim: 8},
		Tokenizer: config.TokenizerConfig{Type: config.TokenizerHash},
		Aligner:   config.AlignerConfig{MaxLen: 8, MaxVideoLen: 8},
	}
	_, err := model.Load(context.Background(), cfg, nil)
	assert.Error(t, err)
}
