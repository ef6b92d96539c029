package pose

import (
	"fmt"
	"slices"
)

// GetComponents returns a new pose restricted to the named components, in
// header order. When points has an entry for a component only those points
// are kept, in the component's original order. Limbs whose endpoints were
// dropped are removed and the rest are re-indexed.
func (p *Pose) GetComponents(names []string, points map[string][]string) (*Pose, error) {
	for _, name := range names {
		if !slices.ContainsFunc(p.Header.Components, func(c Component) bool { return c.Name == name }) {
			return nil, fmt.Errorf("%w: component %q not found", ErrUnknownSchema, name)
		}
	}

	header := &Header{Version: p.Header.Version, Dimensions: p.Header.Dimensions}
	var keep []int
	offset := 0
	for _, c := range p.Header.Components {
		if !slices.Contains(names, c.Name) {
			offset += len(c.Points)
			continue
		}
		filter, filtered := points[c.Name]
		remap := make(map[int]int, len(c.Points))
		nc := Component{Name: c.Name, Format: c.Format, Colors: append([][3]uint16(nil), c.Colors...)}
		for i, pt := range c.Points {
			if filtered && !slices.Contains(filter, pt) {
				continue
			}
			remap[i] = len(nc.Points)
			nc.Points = append(nc.Points, pt)
			keep = append(keep, offset+i)
		}
		for _, l := range c.Limbs {
			a, okA := remap[int(l[0])]
			b, okB := remap[int(l[1])]
			if okA && okB {
				nc.Limbs = append(nc.Limbs, [2]uint16{uint16(a), uint16(b)})
			}
		}
		header.Components = append(header.Components, nc)
		offset += len(c.Points)
	}

	src := p.Body
	dst := NewBody(src.FPS, src.Frames, src.People, len(keep), src.Dims)
	for f := 0; f < src.Frames; f++ {
		for person := 0; person < src.People; person++ {
			for i, from := range keep {
				dst.Confidence[dst.ConfidenceIndex(f, person, i)] = src.Confidence[src.ConfidenceIndex(f, person, from)]
				copy(dst.Point(f, person, i), src.Point(f, person, from))
			}
		}
	}
	return &Pose{Header: header, Body: dst}, nil
}
