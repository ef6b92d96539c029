package text

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// HashTokenizer splits on whitespace and punctuation and hashes each
// lower-cased word into [offset, vocab). Language tags such as <ase> stay
// whole since angle brackets are symbols, not punctuation.
type HashTokenizer struct {
	vocab  int
	offset int
}

// NewHash returns a tokenizer over a vocabulary of the given size. Ids below
// 1000 are left free for special tokens.
func NewHash(vocab int) *HashTokenizer {
	if vocab <= 1000 {
		vocab = 30522
	}
	return &HashTokenizer{vocab: vocab, offset: 1000}
}

func (t *HashTokenizer) Name() string { return "hash" }

func (t *HashTokenizer) Encode(text string) ([]int, error) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	ids := make([]int, 0, len(words))
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		ids = append(ids, t.offset+int(h.Sum32()%uint32(t.vocab-t.offset)))
	}
	return ids, nil
}
