package pose

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

const (
	Version01 float32 = 0.1
	Version02 float32 = 0.2
)

// Write encodes p in the binary .pose format using the header's version.
func Write(w io.Writer, p *Pose) error {
	if err := p.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	wr := &writer{w: bw}
	h := p.Header
	if h.Version != Version01 && h.Version != Version02 {
		return fmt.Errorf("%w: %v", ErrUnsupportedVersion, h.Version)
	}
	wr.float32(h.Version)
	wr.uint16(h.Dimensions.Width)
	wr.uint16(h.Dimensions.Height)
	wr.uint16(h.Dimensions.Depth)
	wr.uint16(uint16(len(h.Components)))
	for _, c := range h.Components {
		wr.str(c.Name)
		wr.str(c.Format)
		wr.uint16(uint16(len(c.Points)))
		wr.uint16(uint16(len(c.Limbs)))
		wr.uint16(uint16(len(c.Colors)))
		for _, pt := range c.Points {
			wr.str(pt)
		}
		for _, l := range c.Limbs {
			wr.uint16(l[0])
			wr.uint16(l[1])
		}
		for _, col := range c.Colors {
			wr.uint16(col[0])
			wr.uint16(col[1])
			wr.uint16(col[2])
		}
	}
	b := p.Body
	if h.Version == Version01 {
		wr.uint16(uint16(b.FPS))
		wr.uint16(uint16(b.Frames))
	} else {
		wr.float32(b.FPS)
		wr.uint32(uint32(b.Frames))
	}
	wr.uint16(uint16(b.People))
	for _, v := range b.Data {
		wr.float32(v)
	}
	for _, v := range b.Confidence {
		wr.float32(v)
	}
	if wr.err != nil {
		return wr.err
	}
	return bw.Flush()
}

// WriteFile writes p to path, replacing any existing file.
func WriteFile(path string, p *Pose) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, p); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type writer struct {
	w   io.Writer
	buf [4]byte
	err error
}

func (w *writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *writer) uint16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

func (w *writer) uint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *writer) float32(v float32) {
	w.uint32(math.Float32bits(v))
}

func (w *writer) str(s string) {
	w.uint16(uint16(len(s)))
	w.write([]byte(s))
}
