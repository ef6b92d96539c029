package text

import "fmt"

// Preprocessor tokenizes text and aligns it into an Encoding.
type Preprocessor struct {
	Tokenizer Tokenizer
	Aligner   *Aligner
}

func NewPreprocessor(tk Tokenizer, al *Aligner) *Preprocessor {
	return &Preprocessor{Tokenizer: tk, Aligner: al}
}

func (p *Preprocessor) Preprocess(s string) (Encoding, error) {
	ids, err := p.Tokenizer.Encode(s)
	if err != nil {
		return Encoding{}, fmt.Errorf("tokenize %q: %w", s, err)
	}
	return p.Aligner.BuildTextSeq(ids), nil
}
