// Package text tokenizes prompts and aligns them into the fixed-length
// sequences the model expects.
package text

// Tokenizer maps text to vocabulary ids without adding special tokens.
type Tokenizer interface {
	Encode(text string) ([]int, error)
	Name() string
}
