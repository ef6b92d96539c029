package preprocess_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/pose/posetest"
	"github.com/0x5457/signclip/internal/preprocess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessShape(t *testing.T) {
	p := posetest.Holistic(4, 1)
	before := append([]float32(nil), p.Body.Data...)

	feat, err := preprocess.NewPosePreprocessor(nil).Preprocess(p)
	require.NoError(t, err)

	rows, cols := feat.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 534, cols)
	assert.Equal(t, before, p.Body.Data, "input pose must not be modified")
}

func TestPreprocessDeterministic(t *testing.T) {
	pp := preprocess.NewPosePreprocessor(nil)
	a, err := pp.Preprocess(posetest.Holistic(3, 9))
	require.NoError(t, err)
	b, err := pp.Preprocess(posetest.Holistic(3, 9))
	require.NoError(t, err)
	assert.Equal(t, a.RawMatrix().Data, b.RawMatrix().Data)
}

func TestPreprocessNonFinite(t *testing.T) {
	p := posetest.Holistic(2, 2)
	face, err := p.Header.PointIndex(pose.FaceLandmarks, "0")
	require.NoError(t, err)
	p.Body.Point(0, 0, face)[0] = float32(math.NaN())
	p.Body.Point(1, 0, face)[1] = float32(math.Inf(1))

	feat, err := preprocess.NewPosePreprocessor(nil).Preprocess(p)
	require.NoError(t, err)
	for _, v := range feat.RawMatrix().Data {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestPreprocessMaskedPointsAreZero(t *testing.T) {
	p := posetest.Holistic(1, 3)
	wrist, err := p.Header.PointIndex(pose.RightHandLandmarks, "WRIST")
	require.NoError(t, err)
	p.Body.Confidence[p.Body.ConfidenceIndex(0, 0, wrist)] = 0

	feat, err := preprocess.NewPosePreprocessor(nil).Preprocess(p)
	require.NoError(t, err)

	// right hand is the last component: 8 + 128 + 21 points precede it
	col := (8 + 128 + 21) * 3
	assert.Equal(t, []float64{0, 0, 0}, feat.RawRowView(0)[col:col+3])
}

func TestPreprocessStats(t *testing.T) {
	stats := &preprocess.Stats{Mean: make([]float64, 534), Std: make([]float64, 534)}
	for i := range stats.Mean {
		stats.Mean[i] = 1
		stats.Std[i] = 2
	}

	p := posetest.Holistic(2, 4)
	plain, err := preprocess.NewPosePreprocessor(nil).Preprocess(p)
	require.NoError(t, err)
	scaled, err := preprocess.NewPosePreprocessor(stats).Preprocess(p)
	require.NoError(t, err)

	for i, v := range plain.RawMatrix().Data {
		assert.InDelta(t, (v-1)/2, scaled.RawMatrix().Data[i], 1e-5)
	}
}

func TestPreprocessStatsMismatch(t *testing.T) {
	stats := &preprocess.Stats{Mean: []float64{0}, Std: []float64{1}}
	_, err := preprocess.NewPosePreprocessor(stats).Preprocess(posetest.Holistic(1, 1))
	assert.Error(t, err)
}

func TestPreprocessErrors(t *testing.T) {
	pp := preprocess.NewPosePreprocessor(nil)

	_, err := pp.Preprocess(posetest.Holistic(0, 1))
	assert.ErrorIs(t, err, preprocess.ErrEmptyPose)

	_, err = pp.Preprocess(posetest.OpenPose(3))
	assert.ErrorIs(t, err, pose.ErrUnknownSchema)
}

func TestLoadStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mean":[0.5,1],"std":[1,0]}`), 0o644))

	s, err := preprocess.LoadStats(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1}, s.Mean)

	require.NoError(t, os.WriteFile(path, []byte(`{"mean":[0.5],"std":[]}`), 0o644))
	_, err = preprocess.LoadStats(path)
	assert.Error(t, err)
}
