package text

import "fmt"

// BERT special token ids.
const (
	DefaultPadTokenID = 0
	DefaultCLSTokenID = 101
	DefaultSEPTokenID = 102
)

// Encoding is a padded token sequence and its attention mask, batch size one.
type Encoding struct {
	Caps   []int64
	CMasks []bool
}

// Aligner builds the text half of the joint video/text sequence. The model
// reserves MaxVideoLen positions for pose frames out of MaxLen.
type Aligner struct {
	MaxLen      int
	MaxVideoLen int
	CLSTokenID  int
	SEPTokenID  int
	PadTokenID  int
}

// TextLen is the fixed length of every text encoding.
func (a *Aligner) TextLen() int { return a.MaxLen - a.MaxVideoLen }

func (a *Aligner) Validate() error {
	if a.MaxLen-a.MaxVideoLen < 3 {
		return fmt.Errorf("aligner: max_len %d leaves no room for text after %d video tokens", a.MaxLen, a.MaxVideoLen)
	}
	return nil
}

// BuildTextSeq truncates ids, lays them out as [CLS, SEP] + ids + [SEP]
// and pads to TextLen. The first SEP marks where the pose frames are spliced
// in by the model.
func (a *Aligner) BuildTextSeq(ids []int) Encoding {
	maxText := a.MaxLen - a.MaxVideoLen - 3
	if len(ids) > maxText {
		ids = ids[:maxText]
	}
	n := a.TextLen()
	enc := Encoding{Caps: make([]int64, n), CMasks: make([]bool, n)}
	seq := make([]int, 0, len(ids)+3)
	seq = append(seq, a.CLSTokenID, a.SEPTokenID)
	seq = append(seq, ids...)
	seq = append(seq, a.SEPTokenID)
	for i := range enc.Caps {
		if i < len(seq) {
			enc.Caps[i] = int64(seq[i])
			enc.CMasks[i] = true
			continue
		}
		enc.Caps[i] = int64(a.PadTokenID)
	}
	return enc
}
