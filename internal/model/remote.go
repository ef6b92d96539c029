package model

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RemoteModel posts forward passes as JSON to an inference server.
type RemoteModel struct {
	url    string
	client *resty.Client
}

func NewRemote(url string) *RemoteModel {
	client := resty.New().
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &RemoteModel{url: url, client: client}
}

func (m *RemoteModel) Name() string { return "remote:" + m.url }

func (m *RemoteModel) Close() error { return nil }

type forwardRequest struct {
	PoseFrames  [][]float32 `json:"pose_frames"`
	Caps        []int64     `json:"caps"`
	CMasks      []bool      `json:"cmasks"`
	ReturnScore bool        `json:"return_score"`
}

type forwardResponse struct {
	PooledVideo []float32 `json:"pooled_video"`
	PooledText  []float32 `json:"pooled_text"`
	Score       *float64  `json:"score,omitempty"`
}

func (m *RemoteModel) Forward(ctx context.Context, in Input) (*Output, error) {
	var result forwardResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(forwardRequest{
			PoseFrames:  rows(in.PoseFrames),
			Caps:        in.Text.Caps,
			CMasks:      in.Text.CMasks,
			ReturnScore: in.ReturnScore,
		}).
		SetResult(&result).
		Post(m.url)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("inference server %s: %s", resp.Status(), resp.String())
	}
	if len(result.PooledVideo) == 0 || len(result.PooledVideo) != len(result.PooledText) {
		return nil, fmt.Errorf("inference server returned embeddings of length %d and %d",
			len(result.PooledVideo), len(result.PooledText))
	}

	out := &Output{PooledVideo: result.PooledVideo, PooledText: result.PooledText}
	if in.ReturnScore {
		if result.Score != nil {
			out.Score = *result.Score
		} else {
			out.Score = Dot(out.PooledVideo, out.PooledText)
		}
	}
	return out, nil
}
