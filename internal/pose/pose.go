// Package pose holds the in-memory representation of a pose sequence and the
// codec for the binary .pose file format.
package pose

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSchema      = errors.New("unknown pose header schema")
	ErrUnsupportedVersion = errors.New("unsupported pose format version")
)

// Dimensions describes the canvas the landmarks were estimated on.
type Dimensions struct {
	Width  uint16
	Height uint16
	Depth  uint16
}

// Component is a named group of landmarks, e.g. POSE_LANDMARKS or FACE_LANDMARKS.
type Component struct {
	Name   string
	Format string // e.g. "XYZC": one letter per dimension plus confidence
	Points []string
	Limbs  [][2]uint16
	Colors [][3]uint16
}

// PointIndex returns the index of a point inside the component.
func (c Component) PointIndex(point string) (int, bool) {
	for i, p := range c.Points {
		if p == point {
			return i, true
		}
	}
	return -1, false
}

type Header struct {
	Version    float32
	Dimensions Dimensions
	Components []Component
}

// NumDims is the number of coordinates per point, derived from the first
// component's format without its trailing confidence channel.
func (h *Header) NumDims() int {
	if len(h.Components) == 0 {
		return 0
	}
	return len(h.Components[0].Format) - 1
}

// TotalPoints counts the points across all components.
func (h *Header) TotalPoints() int {
	n := 0
	for _, c := range h.Components {
		n += len(c.Points)
	}
	return n
}

// SchemaName is the name of the first component, which identifies the
// estimator that produced the file.
func (h *Header) SchemaName() string {
	if len(h.Components) == 0 {
		return ""
	}
	return h.Components[0].Name
}

// PointIndex returns the global index of point inside component, counting
// points of all preceding components.
func (h *Header) PointIndex(component, point string) (int, error) {
	offset := 0
	for _, c := range h.Components {
		if c.Name == component {
			if idx, ok := c.PointIndex(point); ok {
				return offset + idx, nil
			}
			return -1, fmt.Errorf("point %q not found in component %q", point, component)
		}
		offset += len(c.Points)
	}
	return -1, fmt.Errorf("component %q not found", component)
}

// Body stores landmark coordinates as a flat [frame][person][point][dim]
// array and confidences as [frame][person][point].
type Body struct {
	FPS        float32
	Frames     int
	People     int
	Points     int
	Dims       int
	Data       []float32
	Confidence []float32
}

// NewBody allocates a zeroed body.
func NewBody(fps float32, frames, people, points, dims int) *Body {
	return &Body{
		FPS:        fps,
		Frames:     frames,
		People:     people,
		Points:     points,
		Dims:       dims,
		Data:       make([]float32, frames*people*points*dims),
		Confidence: make([]float32, frames*people*points),
	}
}

// ConfidenceIndex returns the offset of (frame, person, point) in Confidence.
func (b *Body) ConfidenceIndex(frame, person, point int) int {
	return (frame*b.People+person)*b.Points + point
}

// DataIndex returns the offset of the first coordinate of (frame, person,
// point) in Data.
func (b *Body) DataIndex(frame, person, point int) int {
	return b.ConfidenceIndex(frame, person, point) * b.Dims
}

// Masked reports whether the point has zero confidence.
func (b *Body) Masked(frame, person, point int) bool {
	return b.Confidence[b.ConfidenceIndex(frame, person, point)] == 0
}

// Point returns the coordinates of a point. The slice aliases Data.
func (b *Body) Point(frame, person, point int) []float32 {
	i := b.DataIndex(frame, person, point)
	return b.Data[i : i+b.Dims]
}

// ZeroPoint clears coordinates and confidence of a point in every frame and
// person.
func (b *Body) ZeroPoint(point int) {
	for f := 0; f < b.Frames; f++ {
		for p := 0; p < b.People; p++ {
			b.Confidence[b.ConfidenceIndex(f, p, point)] = 0
			clear(b.Point(f, p, point))
		}
	}
}

// Clone returns a deep copy of the body.
func (b *Body) Clone() *Body {
	out := *b
	out.Data = append([]float32(nil), b.Data...)
	out.Confidence = append([]float32(nil), b.Confidence...)
	return &out
}

type Pose struct {
	Header *Header
	Body   *Body
}

// Validate checks that the body layout matches the header.
func (p *Pose) Validate() error {
	if p.Header == nil || p.Body == nil {
		return errors.New("pose: missing header or body")
	}
	if got, want := p.Body.Points, p.Header.TotalPoints(); got != want {
		return fmt.Errorf("pose: body has %d points, header declares %d", got, want)
	}
	if got, want := p.Body.Dims, p.Header.NumDims(); got != want {
		return fmt.Errorf("pose: body has %d dims, header declares %d", got, want)
	}
	if len(p.Body.Data) != p.Body.Frames*p.Body.People*p.Body.Points*p.Body.Dims {
		return errors.New("pose: data length does not match body shape")
	}
	if len(p.Body.Confidence) != p.Body.Frames*p.Body.People*p.Body.Points {
		return errors.New("pose: confidence length does not match body shape")
	}
	return nil
}

// Clone returns a deep copy of the pose.
func (p *Pose) Clone() *Pose {
	h := *p.Header
	h.Components = make([]Component, len(p.Header.Components))
	for i, c := range p.Header.Components {
		c.Points = append([]string(nil), c.Points...)
		c.Limbs = append([][2]uint16(nil), c.Limbs...)
		c.Colors = append([][3]uint16(nil), c.Colors...)
		h.Components[i] = c
	}
	return &Pose{Header: &h, Body: p.Body.Clone()}
}
