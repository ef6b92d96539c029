// Package modeltest builds model bundles backed by the local model for
// tests.
package modeltest

import (
	"context"
	"testing"

	"github.com/0x5457/signclip/internal/config"
	"github.com/0x5457/signclip/internal/constants"
	"github.com/0x5457/signclip/internal/model"
	"github.com/stretchr/testify/require"
)

// Dim is the embedding size of bundles returned by Local.
const Dim = 32

// Config returns a named config for the local backend and hash tokenizer.
func Config() *config.File {
	return &config.File{
		Name:       "local-test",
		Model:      config.ModelConfig{Backend: config.BackendLocal, EmbeddingDim: Dim, Seed: 7},
		Tokenizer:  config.TokenizerConfig{Type: config.TokenizerHash},
		Aligner:    config.AlignerConfig{MaxLen: constants.DefaultMaxLen, MaxVideoLen: constants.DefaultMaxVideoLen},
		Preprocess: config.PreprocessConfig{FeatureDim: constants.DefaultFeatureDim},
	}
}

// Local loads a bundle from Config and closes it when the test ends.
func Local(t *testing.T) *model.Bundle {
	t.Helper()
	b, err := model.Load(context.Background(), Config(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}
