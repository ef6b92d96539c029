// Package preprocess turns poses into the feature matrices the model consumes.
package preprocess

import (
	"errors"
	"fmt"
	"math"

	"github.com/0x5457/signclip/internal/pose"
	"gonum.org/v1/gonum/mat"
)

var ErrEmptyPose = errors.New("pose has no frames")

// PosePreprocessor applies the fixed mediapipe pipeline: reduce to upper
// body, face contour and hands, normalize by the shoulders, standardize with
// Stats, then flatten every frame into one row.
type PosePreprocessor struct {
	stats *Stats
}

// NewPosePreprocessor returns a preprocessor. A nil stats skips
// standardization.
func NewPosePreprocessor(stats *Stats) *PosePreprocessor {
	return &PosePreprocessor{stats: stats}
}

// Preprocess returns a frames × features matrix. The input pose is not
// modified. Masked points and non-finite values become 0.
func (pp *PosePreprocessor) Preprocess(p *pose.Pose) (*mat.Dense, error) {
	if p.Body.Frames == 0 {
		return nil, ErrEmptyPose
	}
	reduced, err := pose.ReduceHolistic(p)
	if err != nil {
		return nil, err
	}
	info, err := pose.ShoulderNormalization(reduced.Header)
	if err != nil {
		return nil, err
	}
	reduced.Normalize(info)

	b := reduced.Body
	perPerson := b.Points * b.Dims
	if pp.stats != nil && len(pp.stats.Mean) != perPerson {
		return nil, fmt.Errorf("stats have %d features, pose has %d", len(pp.stats.Mean), perPerson)
	}

	cols := b.People * perPerson
	feat := mat.NewDense(b.Frames, cols, nil)
	for f := 0; f < b.Frames; f++ {
		row := feat.RawRowView(f)
		for person := 0; person < b.People; person++ {
			for pt := 0; pt < b.Points; pt++ {
				if b.Masked(f, person, pt) {
					continue
				}
				coords := b.Point(f, person, pt)
				if pp.stats != nil {
					pp.stats.apply(coords, pt*b.Dims)
				}
				base := person*perPerson + pt*b.Dims
				for d, v := range coords {
					row[base+d] = finite(float64(v))
				}
			}
		}
	}
	return feat, nil
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
