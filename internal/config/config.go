// Package config loads the named model configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/0x5457/signclip/internal/constants"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Model backends.
const (
	BackendRemote = "remote"
	BackendONNX   = "onnx"
	BackendLocal  = "local"
)

// Tokenizer types.
const (
	TokenizerHuggingFace = "huggingface"
	TokenizerHash        = "hash"
)

// File is the named model configuration: which model to run, how to
// tokenize and align text and which statistics standardize poses.
type File struct {
	Name       string           `yaml:"name"`
	Model      ModelConfig      `yaml:"model"`
	Tokenizer  TokenizerConfig  `yaml:"tokenizer"`
	Aligner    AlignerConfig    `yaml:"aligner"`
	Preprocess PreprocessConfig `yaml:"preprocess"`
}

type ModelConfig struct {
	Backend      string `yaml:"backend"`
	URL          string `yaml:"url"`
	ONNXPath     string `yaml:"onnx_path"`
	ONNXLibrary  string `yaml:"onnx_library"`
	EmbeddingDim int    `yaml:"embedding_dim"`
	Seed         uint64 `yaml:"seed"`
}

type TokenizerConfig struct {
	Type      string `yaml:"type"`
	Path      string `yaml:"path"`
	VocabSize int    `yaml:"vocab_size"`
}

type AlignerConfig struct {
	MaxLen      int  `yaml:"max_len"`
	MaxVideoLen int  `yaml:"max_video_len"`
	CLSTokenID  *int `yaml:"cls_token_id"`
	SEPTokenID  *int `yaml:"sep_token_id"`
	PadTokenID  *int `yaml:"pad_token_id"`
}

type PreprocessConfig struct {
	StatsPath  string `yaml:"stats_path"`
	FeatureDim int    `yaml:"feature_dim"`
}

// LoadDotEnv loads a .env file from the working directory when present.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Load parses the configuration at path, applies environment overrides and
// defaults, and resolves relative artifact paths against the file's
// directory.
func Load(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return nil, fmt.Errorf("parse model config %s: %w", path, err)
	}
	if f.Name == "" {
		f.Name = filepath.Base(path)
	}
	f.applyEnv()
	f.applyDefaults()
	f.resolvePaths(filepath.Dir(path))
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *File) applyEnv() {
	if v := os.Getenv(constants.EnvModelURL); v != "" {
		f.Model.URL = v
	}
	if v := os.Getenv(constants.EnvModelBackend); v != "" {
		f.Model.Backend = v
	}
}

func (f *File) applyDefaults() {
	if f.Model.Backend == "" {
		f.Model.Backend = BackendRemote
	}
	if f.Model.URL == "" {
		f.Model.URL = constants.DefaultModelURL
	}
	if f.Model.EmbeddingDim == 0 {
		f.Model.EmbeddingDim = constants.DefaultEmbeddingDim
	}
	if f.Tokenizer.Type == "" {
		f.Tokenizer.Type = TokenizerHuggingFace
		if f.Tokenizer.Path == "" {
			f.Tokenizer.Type = TokenizerHash
		}
	}
	if f.Aligner.MaxLen == 0 {
		f.Aligner.MaxLen = constants.DefaultMaxLen
	}
	if f.Aligner.MaxVideoLen == 0 {
		f.Aligner.MaxVideoLen = constants.DefaultMaxVideoLen
	}
	if f.Preprocess.FeatureDim == 0 {
		f.Preprocess.FeatureDim = constants.DefaultFeatureDim
	}
}

func (f *File) resolvePaths(dir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	resolve(&f.Model.ONNXPath)
	resolve(&f.Tokenizer.Path)
	resolve(&f.Preprocess.StatsPath)
}

// Validate reports configuration errors that would only surface at the
// first forward pass otherwise.
func (f *File) Validate() error {
	switch f.Model.Backend {
	case BackendRemote, BackendLocal:
	case BackendONNX:
		if f.Model.ONNXPath == "" {
			return errors.New("model.onnx_path is required for the onnx backend")
		}
	default:
		return fmt.Errorf("unknown model backend %q", f.Model.Backend)
	}
	switch f.Tokenizer.Type {
	case TokenizerHash:
	case TokenizerHuggingFace:
		if f.Tokenizer.Path == "" {
			return errors.New("tokenizer.path is required for huggingface tokenizers")
		}
	default:
		return fmt.Errorf("unknown tokenizer type %q", f.Tokenizer.Type)
	}
	if f.Aligner.MaxLen-f.Aligner.MaxVideoLen < 3 {
		return fmt.Errorf("aligner.max_len %d too small for max_video_len %d", f.Aligner.MaxLen, f.Aligner.MaxVideoLen)
	}
	return nil
}

// TokenID returns the configured id or def when unset.
func TokenID(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
