package pose

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Read decodes a pose from the binary .pose format.
func Read(buf []byte) (*Pose, error) {
	r := &reader{buf: buf}
	header, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	body, err := readBody(r, header)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Pose{Header: header, Body: body}, nil
}

// ReadFrom reads the whole stream and decodes it.
func ReadFrom(rd io.Reader) (*Pose, error) {
	buf, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return Read(buf)
}

// ReadFile loads a .pose file from disk.
func ReadFile(path string) (*Pose, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Read(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func readHeader(r *reader) (*Header, error) {
	version, err := r.float32()
	if err != nil {
		return nil, err
	}
	if version != Version01 && version != Version02 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedVersion, version)
	}
	h := &Header{Version: version}
	if h.Dimensions.Width, err = r.uint16(); err != nil {
		return nil, err
	}
	if h.Dimensions.Height, err = r.uint16(); err != nil {
		return nil, err
	}
	if h.Dimensions.Depth, err = r.uint16(); err != nil {
		return nil, err
	}
	n, err := r.uint16()
	if err != nil {
		return nil, err
	}
	h.Components = make([]Component, n)
	for i := range h.Components {
		if h.Components[i], err = readComponent(r); err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
	}
	return h, nil
}

func readComponent(r *reader) (Component, error) {
	var c Component
	var err error
	if c.Name, err = r.str(); err != nil {
		return c, err
	}
	if c.Format, err = r.str(); err != nil {
		return c, err
	}
	var counts [3]uint16
	for i := range counts {
		if counts[i], err = r.uint16(); err != nil {
			return c, err
		}
	}
	c.Points = make([]string, counts[0])
	for i := range c.Points {
		if c.Points[i], err = r.str(); err != nil {
			return c, err
		}
	}
	c.Limbs = make([][2]uint16, counts[1])
	for i := range c.Limbs {
		for j := range c.Limbs[i] {
			if c.Limbs[i][j], err = r.uint16(); err != nil {
				return c, err
			}
		}
	}
	c.Colors = make([][3]uint16, counts[2])
	for i := range c.Colors {
		for j := range c.Colors[i] {
			if c.Colors[i][j], err = r.uint16(); err != nil {
				return c, err
			}
		}
	}
	return c, nil
}

func readBody(r *reader, h *Header) (*Body, error) {
	var fps float32
	switch h.Version {
	case Version01:
		v, err := r.uint16()
		if err != nil {
			return nil, err
		}
		fps = float32(v)
		// stored frame count is a u16 and overflows on long videos
		if _, err := r.uint16(); err != nil {
			return nil, err
		}
	default:
		v, err := r.float32()
		if err != nil {
			return nil, err
		}
		fps = v
		if _, err := r.uint32(); err != nil {
			return nil, err
		}
	}
	people, err := r.uint16()
	if err != nil {
		return nil, err
	}
	points := h.TotalPoints()
	dims := h.NumDims()
	perFrame := int(people) * points * (dims + 1) * 4
	if perFrame == 0 {
		return NewBody(fps, 0, int(people), points, dims), nil
	}
	left := r.remaining()
	if left%perFrame != 0 {
		return nil, fmt.Errorf("%d trailing bytes do not form whole frames of %d bytes", left, perFrame)
	}
	b := NewBody(fps, left/perFrame, int(people), points, dims)
	if err := r.float32s(b.Data); err != nil {
		return nil, err
	}
	if err := r.float32s(b.Confidence); err != nil {
		return nil, err
	}
	return b, nil
}

type reader struct {
	buf []byte
	off int
}

var errShortBuffer = errors.New("unexpected end of pose data")

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) next(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, errShortBuffer
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) uint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) uint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) float32() (float32, error) {
	v, err := r.uint32()
	return math.Float32frombits(v), err
}

func (r *reader) float32s(dst []float32) error {
	b, err := r.next(len(dst) * 4)
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return nil
}

func (r *reader) str() (string, error) {
	n, err := r.uint16()
	if err != nil {
		return "", err
	}
	b, err := r.next(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
