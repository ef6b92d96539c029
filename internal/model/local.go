package model

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LocalModel is a deterministic offline stand-in. The video embedding is
// the frame mean projected by a seeded random matrix; the text embedding
// sums a hash vector per unmasked token. Both are L2 normalized.
type LocalModel struct {
	dim  int
	seed uint64

	mu   sync.Mutex
	proj map[int]*mat.Dense // feature dim → projection
}

func NewLocal(dim int, seed uint64) *LocalModel {
	return &LocalModel{dim: dim, seed: seed, proj: make(map[int]*mat.Dense)}
}

func (m *LocalModel) Name() string { return "local-fixed" }

func (m *LocalModel) Close() error { return nil }

func (m *LocalModel) Forward(_ context.Context, in Input) (*Output, error) {
	out := &Output{
		PooledVideo: m.video(in.PoseFrames),
		PooledText:  m.text(in.Text.Caps, in.Text.CMasks),
	}
	if in.ReturnScore {
		out.Score = Dot(out.PooledVideo, out.PooledText)
	}
	return out, nil
}

func (m *LocalModel) video(frames *mat.Dense) []float32 {
	r, c := frames.Dims()
	mean := mat.NewVecDense(c, nil)
	for i := 0; i < r; i++ {
		mean.AddVec(mean, frames.RowView(i))
	}
	mean.ScaleVec(1/float64(r), mean)

	var v mat.VecDense
	v.MulVec(m.projection(c).T(), mean)
	return normalize(v.RawVector().Data)
}

func (m *LocalModel) projection(features int) *mat.Dense {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.proj[features]; ok {
		return p
	}
	rng := rand.New(rand.NewPCG(m.seed, uint64(features)))
	data := make([]float64, features*m.dim)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	p := mat.NewDense(features, m.dim, data)
	m.proj[features] = p
	return p
}

func (m *LocalModel) text(caps []int64, masks []bool) []float32 {
	sum := make([]float64, m.dim)
	for i, id := range caps {
		if !masks[i] {
			continue
		}
		floats.Add(sum, hashToVector(id, m.dim))
	}
	return normalize(sum)
}

func hashToVector(id int64, dim int) []float64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	h := sha1.Sum(buf[:])
	vec := make([]float64, dim)
	for i := range vec {
		// repeat hash bytes to fill dim
		vec[i] = float64(int8(h[i%len(h)]^byte(i/len(h)))) / 127.0
	}
	return vec
}

func normalize(v []float64) []float32 {
	n := floats.Norm(v, 2)
	out := make([]float32, len(v))
	if n == 0 || math.IsNaN(n) {
		return out
	}
	for i, x := range v {
		out[i] = float32(x / n)
	}
	return out
}
