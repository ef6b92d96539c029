package embeddings

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/0x5457/signclip/internal/model"
	"github.com/0x5457/signclip/internal/pose"
	"github.com/0x5457/signclip/internal/text"
	"gonum.org/v1/gonum/mat"
)

// ModelEmbedder embeds each modality with a forward pass that pairs it with
// a constant input for the other one: the empty text for poses and a fixed
// noise pose for texts.
type ModelEmbedder struct {
	bundle      *model.Bundle
	emptyText   text.Encoding
	placeholder *mat.Dense
}

func NewModelEmbedder(bundle *model.Bundle) (*ModelEmbedder, error) {
	empty, err := bundle.Text.Preprocess("")
	if err != nil {
		return nil, err
	}
	return &ModelEmbedder{
		bundle:      bundle,
		emptyText:   empty,
		placeholder: placeholderPose(bundle.FeatureDim, bundle.Seed),
	}, nil
}

// placeholderPose is one frame of standard normal noise.
func placeholderPose(features int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, 0))
	data := make([]float64, features)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	return mat.NewDense(1, features, data)
}

func (e *ModelEmbedder) ModelName() string { return e.bundle.Model.Name() }

// EmbedPoses returns the pooled video embedding of every pose.
func (e *ModelEmbedder) EmbedPoses(ctx context.Context, poses []*pose.Pose) (*mat.Dense, error) {
	vecs := make([][]float32, 0, len(poses))
	for i, p := range poses {
		frames, err := e.bundle.Pose.Preprocess(p)
		if err != nil {
			return nil, fmt.Errorf("preprocess pose %d: %w", i, err)
		}
		out, err := e.bundle.Model.Forward(ctx, model.Input{PoseFrames: frames, Text: e.emptyText})
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, out.PooledVideo)
	}
	return stack(vecs), nil
}

// EmbedTexts returns the pooled text embedding of every text.
func (e *ModelEmbedder) EmbedTexts(ctx context.Context, texts []string) (*mat.Dense, error) {
	vecs := make([][]float32, 0, len(texts))
	for _, t := range texts {
		enc, err := e.bundle.Text.Preprocess(t)
		if err != nil {
			return nil, err
		}
		out, err := e.bundle.Model.Forward(ctx, model.Input{PoseFrames: e.placeholder, Text: enc})
		if err != nil {
			return nil, err
		}
		vecs = append(vecs, out.PooledText)
	}
	return stack(vecs), nil
}

func (e *ModelEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	m, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return Rows(m)[0], nil
}

// ScorePoseAndText runs a single joint forward pass and returns the text
// with its score.
func (e *ModelEmbedder) ScorePoseAndText(ctx context.Context, p *pose.Pose, s string) (string, float64, error) {
	frames, err := e.bundle.Pose.Preprocess(p)
	if err != nil {
		return "", 0, err
	}
	enc, err := e.bundle.Text.Preprocess(s)
	if err != nil {
		return "", 0, err
	}
	out, err := e.bundle.Model.Forward(ctx, model.Input{PoseFrames: frames, Text: enc, ReturnScore: true})
	if err != nil {
		return "", 0, err
	}
	return s, out.Score, nil
}

func stack(vecs [][]float32) *mat.Dense {
	if len(vecs) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(vecs), len(vecs[0]), nil)
	for i, v := range vecs {
		row := m.RawRowView(i)
		for j, x := range v {
			row[j] = float64(x)
		}
	}
	return m
}
