package pose

import (
	"fmt"
	"math"
)

// NormalizationInfo names the two reference points whose midpoint becomes
// the origin and whose distance becomes the unit length.
type NormalizationInfo struct {
	P1 int
	P2 int
}

// ShoulderNormalization resolves the shoulder points for the known
// estimator schemas.
func ShoulderNormalization(h *Header) (NormalizationInfo, error) {
	var component, right, left string
	switch h.SchemaName() {
	case "POSE_LANDMARKS":
		component, right, left = "POSE_LANDMARKS", "RIGHT_SHOULDER", "LEFT_SHOULDER"
	case "BODY_135":
		component, right, left = "BODY_135", "RShoulder", "LShoulder"
	case "pose_keypoints_2d":
		component, right, left = "pose_keypoints_2d", "RShoulder", "LShoulder"
	default:
		return NormalizationInfo{}, fmt.Errorf("%w: %q", ErrUnknownSchema, h.SchemaName())
	}
	p1, err := h.PointIndex(component, right)
	if err != nil {
		return NormalizationInfo{}, err
	}
	p2, err := h.PointIndex(component, left)
	if err != nil {
		return NormalizationInfo{}, err
	}
	return NormalizationInfo{P1: p1, P2: p2}, nil
}

// Normalize translates every unmasked point by the mean midpoint of the
// reference points and scales by the inverse of their mean distance. Only
// frames where both reference points are visible contribute to the
// statistics. A pose where they are never visible is zeroed.
func (p *Pose) Normalize(info NormalizationInfo) {
	b := p.Body
	center := make([]float64, b.Dims)
	var dist float64
	var n int
	for f := 0; f < b.Frames; f++ {
		for person := 0; person < b.People; person++ {
			if b.Masked(f, person, info.P1) || b.Masked(f, person, info.P2) {
				continue
			}
			a, c := b.Point(f, person, info.P1), b.Point(f, person, info.P2)
			var sq float64
			for d := 0; d < b.Dims; d++ {
				center[d] += float64(a[d]+c[d]) / 2
				diff := float64(a[d] - c[d])
				sq += diff * diff
			}
			dist += math.Sqrt(sq)
			n++
		}
	}
	if n == 0 || dist == 0 {
		clear(b.Data)
		return
	}
	for d := range center {
		center[d] /= float64(n)
	}
	scale := float64(n) / dist
	for f := 0; f < b.Frames; f++ {
		for person := 0; person < b.People; person++ {
			for pt := 0; pt < b.Points; pt++ {
				if b.Masked(f, person, pt) {
					continue
				}
				coords := b.Point(f, person, pt)
				for d := range coords {
					coords[d] = float32((float64(coords[d]) - center[d]) * scale)
				}
			}
		}
	}
}

var legPoints = []string{"KNEE", "ANKLE", "HEEL", "FOOT_INDEX"}

// HideLegs zeroes coordinates and confidence of the knee, ankle, heel and
// foot points. Only mediapipe holistic headers are supported.
func (p *Pose) HideLegs() error {
	if p.Header.SchemaName() != "POSE_LANDMARKS" {
		return fmt.Errorf("%w: cannot hide legs for %q", ErrUnknownSchema, p.Header.SchemaName())
	}
	for _, name := range legPoints {
		for _, side := range []string{"LEFT", "RIGHT"} {
			idx, err := p.Header.PointIndex("POSE_LANDMARKS", side+"_"+name)
			if err != nil {
				return err
			}
			p.Body.ZeroPoint(idx)
		}
	}
	return nil
}
