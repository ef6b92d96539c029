// Package posetest builds synthetic poses for tests.
package posetest

import (
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/0x5457/signclip/internal/pose"
)

// Holistic returns a single-person mediapipe holistic pose with pseudo-random
// coordinates in [0, 1) and full confidence.
func Holistic(frames int, seed uint64) *pose.Pose {
	header := &pose.Header{
		Version:    pose.Version02,
		Dimensions: pose.Dimensions{Width: 640, Height: 480, Depth: 0},
		Components: pose.HolisticComponents("XYZC"),
	}
	body := pose.NewBody(25, frames, 1, header.TotalPoints(), header.NumDims())
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range body.Data {
		body.Data[i] = rng.Float32()
	}
	for i := range body.Confidence {
		body.Confidence[i] = 1
	}
	return &pose.Pose{Header: header, Body: body}
}

// OpenPose returns a pose whose schema is not mediapipe holistic.
func OpenPose(frames int) *pose.Pose {
	header := &pose.Header{
		Version: pose.Version01,
		Components: []pose.Component{{
			Name:   "pose_keypoints_2d",
			Format: "XYC",
			Points: []string{"Nose", "Neck", "RShoulder", "LShoulder"},
		}},
	}
	body := pose.NewBody(30, frames, 1, 4, 2)
	for i := range body.Data {
		body.Data[i] = float32(i % 7)
	}
	for i := range body.Confidence {
		body.Confidence[i] = 1
	}
	return &pose.Pose{Header: header, Body: body}
}

// WriteFile writes p into dir and returns its path.
func WriteFile(t testing.TB, dir, name string, p *pose.Pose) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := pose.WriteFile(path, p); err != nil {
		t.Fatalf("write pose: %v", err)
	}
	return path
}
