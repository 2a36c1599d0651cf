package resolve

import (
	"github.com/andaru/vkregistry/registry"
	"github.com/pkg/errors"
)

// Span is one run of bits in a flag group layout.
type Span = registry.Span

// Bit is a named bit position.
type Bit struct {
	Name string
	Pos  int
}

// Layout covers bits 0 to width-1 with one single-bit span per named
// bit and a padding span for every gap. bits must be sorted, without
// repeats, and below width.
func Layout(bits []Bit, width int) ([]Span, error) {
	if width < 1 {
		return nil, errors.Errorf("bad layout width %d", width)
	}
	var spans []Span
	next := 0
	for _, b := range bits {
		switch {
		case b.Pos >= width:
			return nil, errors.Errorf("bit %s at %d outside width %d", b.Name, b.Pos, width)
		case b.Pos < next:
			return nil, errors.Errorf("bit %s at %d out of order", b.Name, b.Pos)
		case b.Pos > next:
			spans = append(spans, Span{Bit: next, Width: b.Pos - next, Padding: true})
		}
		spans = append(spans, Span{Name: b.Name, Bit: b.Pos, Width: 1})
		next = b.Pos + 1
	}
	if next < width {
		spans = append(spans, Span{Bit: next, Width: width - next, Padding: true})
	}
	return spans, nil
}

// Layouts returns the layout of every canonical bitmask type in src. A
// type whose bits name a resolved group shares that group's layout;
// any other is one padding span of its full width.
func Layouts(src *registry.Source, groups []registry.ResolvedGroup) (map[string][]Span, error) {
	byGroup := make(map[string][]Span, len(groups))
	for _, g := range groups {
		if g.Layout != nil {
			byGroup[g.Name] = g.Layout
		}
	}
	out := map[string][]Span{}
	for _, b := range src.Bitmasks {
		if b.Alias != "" {
			continue
		}
		if l, ok := byGroup[b.Bits]; ok {
			out[b.Name] = l
			continue
		}
		width := b.Width
		if width == 0 {
			width = 32
		}
		l, err := Layout(nil, width)
		if err != nil {
			return nil, errors.Wrapf(err, "bitmask %s", b.Name)
		}
		out[b.Name] = l
	}
	return out, nil
}
