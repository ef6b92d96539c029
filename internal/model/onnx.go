package model

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var ortMu sync.Mutex

// ONNXModel runs an exported model in-process. Inputs are pose_frames
// (float32 1×T×D), caps and cmasks (int64 1×L); outputs pooled_video and
// pooled_text (float32 1×dim).
type ONNXModel struct {
	path    string
	dim     int
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
}

func NewONNX(_ context.Context, path, library string, dim int) (*ONNXModel, error) {
	ortMu.Lock()
	defer ortMu.Unlock()
	if !ort.IsInitialized() {
		if library != "" {
			ort.SetSharedLibraryPath(library)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{"pose_frames", "caps", "cmasks"},
		[]string{"pooled_video", "pooled_text"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("load onnx model %s: %w", path, err)
	}
	return &ONNXModel{path: path, dim: dim, session: session}, nil
}

func (m *ONNXModel) Name() string { return "onnx:" + m.path }

func (m *ONNXModel) Forward(_ context.Context, in Input) (*Output, error) {
	frames, feats := in.PoseFrames.Dims()
	data := make([]float32, 0, frames*feats)
	for _, row := range rows(in.PoseFrames) {
		data = append(data, row...)
	}
	poseT, err := ort.NewTensor(ort.NewShape(1, int64(frames), int64(feats)), data)
	if err != nil {
		return nil, err
	}
	defer poseT.Destroy()

	masks := make([]int64, len(in.Text.CMasks))
	for i, ok := range in.Text.CMasks {
		if ok {
			masks[i] = 1
		}
	}
	capsT, err := ort.NewTensor(ort.NewShape(1, int64(len(in.Text.Caps))), in.Text.Caps)
	if err != nil {
		return nil, err
	}
	defer capsT.Destroy()
	masksT, err := ort.NewTensor(ort.NewShape(1, int64(len(masks))), masks)
	if err != nil {
		return nil, err
	}
	defer masksT.Destroy()

	videoT, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(m.dim)))
	if err != nil {
		return nil, err
	}
	defer videoT.Destroy()
	textT, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(m.dim)))
	if err != nil {
		return nil, err
	}
	defer textT.Destroy()

	m.mu.Lock()
	err = m.session.Run([]ort.Value{poseT, capsT, masksT}, []ort.Value{videoT, textT})
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("onnx forward: %w", err)
	}

	out := &Output{
		PooledVideo: append([]float32(nil), videoT.GetData()...),
		PooledText:  append([]float32(nil), textT.GetData()...),
	}
	if in.ReturnScore {
		out.Score = Dot(out.PooledVideo, out.PooledText)
	}
	return out, nil
}

// Close releases the session. The onnxruntime environment is process wide
// and torn down by DestroyEnvironment.
func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}

// DestroyEnvironment shuts down onnxruntime if it was initialized.
func DestroyEnvironment() error {
	ortMu.Lock()
	defer ortMu.Unlock()
	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}
