package mosaic

import (
	"fmt"
	"strings"
)

// Motif is an immutable set of pixel offsets relative to an anchor at its
// bottom-left corner.
type Motif struct {
	name    string
	offsets []Coord
	xmax    int
	ymax    int
}

// seaMonsterRows is the default motif, top row first.
var seaMonsterRows = []string{
	"                  # ",
	"#    ##    ##    ###",
	" #  #  #  #  #  #   ",
}

// SeaMonster is the motif searched for by default.
var SeaMonster = mustMotif("sea monster", seaMonsterRows)

func mustMotif(name string, rows []string) Motif {
	m, err := ParseMotif(name, rows)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMotif builds a motif from text rows, top row first. '#' marks a motif
// pixel; any other character is a gap. Rows may differ in length.
func ParseMotif(name string, rows []string) (Motif, error) {
	m := Motif{name: name}
	for i, row := range rows {
		y := len(rows) - 1 - i
		for x, r := range []rune(row) {
			if r == filledMarker {
				m.offsets = append(m.offsets, Coord{X: x, Y: y})
			}
		}
	}
	if len(m.offsets) == 0 {
		return Motif{}, &ParseError{Msg: fmt.Sprintf("motif %q has no filled pixels", name)}
	}

	// Blank rows and columns around the pixels are dropped so the anchor sits
	// on the lowest row and leftmost column that carry a pixel.
	minX, minY := m.offsets[0].X, m.offsets[0].Y
	for _, c := range m.offsets {
		minX, minY = min(minX, c.X), min(minY, c.Y)
	}
	for i := range m.offsets {
		m.offsets[i].X -= minX
		m.offsets[i].Y -= minY
		m.xmax = max(m.xmax, m.offsets[i].X)
		m.ymax = max(m.ymax, m.offsets[i].Y)
	}
	sortCoords(m.offsets)
	return m, nil
}

// Name identifies the motif in logs and reports.
func (m Motif) Name() string { return m.name }

// Offsets returns a copy of the motif's relative pixel coordinates.
func (m Motif) Offsets() []Coord {
	out := make([]Coord, len(m.offsets))
	copy(out, m.offsets)
	return out
}

// Len is the number of pixels in one occurrence.
func (m Motif) Len() int { return len(m.offsets) }

// Width and Height give the motif's bounding box.
func (m Motif) Width() int  { return m.xmax + 1 }
func (m Motif) Height() int { return m.ymax + 1 }

// String renders the motif top row first.
func (m Motif) String() string {
	g := NewGrid(m.xmax, m.ymax)
	for _, c := range m.offsets {
		g.Set(c.X, c.Y, true)
	}
	return strings.ReplaceAll(g.String(), string(emptyMarker), " ")
}
