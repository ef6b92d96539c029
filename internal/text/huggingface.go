package text

import (
	"fmt"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// HuggingFaceTokenizer loads a tokenizer.json, e.g. the BERT WordPiece
// vocabulary the text encoder was trained with.
type HuggingFaceTokenizer struct {
	path string
	tk   *tokenizer.Tokenizer
}

func NewHuggingFace(path string) (*HuggingFaceTokenizer, error) {
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", path, err)
	}
	return &HuggingFaceTokenizer{path: path, tk: tk}, nil
}

func (t *HuggingFaceTokenizer) Name() string { return "huggingface:" + t.path }

func (t *HuggingFaceTokenizer) Encode(text string) ([]int, error) {
	en, err := t.tk.EncodeSingle(text, false)
	if err != nil {
		return nil, err
	}
	return en.Ids, nil
}
