// Package model runs the video/text alignment model behind a common
// Forward interface, either remotely, in-process with onnxruntime or as a
// deterministic local stand-in.
package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/0x5457/signclip/internal/config"
	"github.com/0x5457/signclip/internal/preprocess"
	"github.com/0x5457/signclip/internal/text"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var ErrUnknownBackend = errors.New("unknown model backend")

// Input is a single forward pass: one pose feature matrix (frames ×
// features) and one aligned text encoding.
type Input struct {
	PoseFrames  *mat.Dense
	Text        text.Encoding
	ReturnScore bool
}

type Output struct {
	PooledVideo []float32
	PooledText  []float32
	// Score is the dot product of the pooled embeddings, set when the input
	// asked for it.
	Score float64
}

type Model interface {
	Forward(ctx context.Context, in Input) (*Output, error)
	Name() string
	Close() error
}

// Bundle is everything loaded from a named model configuration.
type Bundle struct {
	Name       string
	Model      Model
	Text       *text.Preprocessor
	Pose       *preprocess.PosePreprocessor
	FeatureDim int
	Seed       uint64
}

func (b *Bundle) Close() error {
	if b == nil || b.Model == nil {
		return nil
	}
	return b.Model.Close()
}

// Load instantiates the configured model, tokenizer, aligner and pose
// statistics.
func Load(ctx context.Context, cfg *config.File, logger *zap.Logger) (*Bundle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	aligner := &text.Aligner{
		MaxLen:      cfg.Aligner.MaxLen,
		MaxVideoLen: cfg.Aligner.MaxVideoLen,
		CLSTokenID:  config.TokenID(cfg.Aligner.CLSTokenID, text.DefaultCLSTokenID),
		SEPTokenID:  config.TokenID(cfg.Aligner.SEPTokenID, text.DefaultSEPTokenID),
		PadTokenID:  config.TokenID(cfg.Aligner.PadTokenID, text.DefaultPadTokenID),
	}
	if err := aligner.Validate(); err != nil {
		return nil, err
	}

	tk, err := newTokenizer(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}

	var stats *preprocess.Stats
	if cfg.Preprocess.StatsPath != "" {
		stats, err = preprocess.LoadStats(cfg.Preprocess.StatsPath)
		if err != nil {
			return nil, fmt.Errorf("load pose stats: %w", err)
		}
	}

	m, err := newModel(ctx, cfg.Model)
	if err != nil {
		return nil, err
	}

	logger.Info("Model loaded",
		zap.String("config", cfg.Name),
		zap.String("model", m.Name()),
		zap.String("tokenizer", tk.Name()),
		zap.Int("max_len", aligner.MaxLen),
		zap.Int("max_video_len", aligner.MaxVideoLen),
		zap.Bool("pose_stats", stats != nil),
	)

	return &Bundle{
		Name:       cfg.Name,
		Model:      m,
		Text:       text.NewPreprocessor(tk, aligner),
		Pose:       preprocess.NewPosePreprocessor(stats),
		FeatureDim: cfg.Preprocess.FeatureDim,
		Seed:       cfg.Model.Seed,
	}, nil
}

func newTokenizer(cfg config.TokenizerConfig) (text.Tokenizer, error) {
	switch cfg.Type {
	case config.TokenizerHuggingFace:
		return text.NewHuggingFace(cfg.Path)
	case config.TokenizerHash:
		return text.NewHash(cfg.VocabSize), nil
	default:
		return nil, fmt.Errorf("unknown tokenizer type %q", cfg.Type)
	}
}

func newModel(ctx context.Context, cfg config.ModelConfig) (Model, error) {
	switch cfg.Backend {
	case config.BackendRemote:
		return NewRemote(cfg.URL), nil
	case config.BackendONNX:
		return NewONNX(ctx, cfg.ONNXPath, cfg.ONNXLibrary, cfg.EmbeddingDim)
	case config.BackendLocal:
		return NewLocal(cfg.EmbeddingDim, cfg.Seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// Dot returns the dot product of two embeddings of equal length.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("model: embedding length mismatch %d != %d", len(a), len(b)))
	}
	return floats.Dot(widen(a), widen(b))
}

func widen(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func rows(m *mat.Dense) [][]float32 {
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
