package mosaic

import (
	"sort"
	"strconv"
	"strings"
)

const (
	filledMarker = '#'
	emptyMarker  = '.'
)

// Coord is an integer grid coordinate. Y grows upward.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Grid is a rectangular boolean pixel grid with its origin at the bottom-left.
// Grids are values: Rotate and Flip return new grids and never modify the
// receiver.
type Grid struct {
	XMax int
	YMax int
	pix  []bool // row-major, index y*(XMax+1)+x
}

// NewGrid allocates an empty grid spanning [0,xmax]×[0,ymax].
func NewGrid(xmax, ymax int) Grid {
	if xmax < 0 || ymax < 0 {
		return Grid{XMax: -1, YMax: -1}
	}
	return Grid{XMax: xmax, YMax: ymax, pix: make([]bool, (xmax+1)*(ymax+1))}
}

// Width is the number of columns.
func (g Grid) Width() int { return g.XMax + 1 }

// Height is the number of rows.
func (g Grid) Height() int { return g.YMax + 1 }

func (g Grid) index(x, y int) int {
	if x < 0 || y < 0 || x > g.XMax || y > g.YMax {
		return -1
	}
	i := y*(g.XMax+1) + x
	if i >= len(g.pix) {
		return -1
	}
	return i
}

// Pixel reports whether (x, y) is filled. Coordinates outside the grid are
// empty.
func (g Grid) Pixel(x, y int) bool {
	i := g.index(x, y)
	return i >= 0 && g.pix[i]
}

// Set fills or clears (x, y). Writes outside the grid are ignored.
func (g Grid) Set(x, y int, v bool) {
	if i := g.index(x, y); i >= 0 {
		g.pix[i] = v
	}
}

// Clone returns an independent copy of the grid.
func (g Grid) Clone() Grid {
	c := Grid{XMax: g.XMax, YMax: g.YMax, pix: make([]bool, len(g.pix))}
	copy(c.pix, g.pix)
	return c
}

// Rotate turns the grid a quarter turn counter-clockwise: a W×H grid becomes
// H×W and (x, y) moves to (H-1-y, x).
func (g Grid) Rotate() Grid {
	r := NewGrid(g.YMax, g.XMax)
	for y := 0; y <= g.YMax; y++ {
		for x := 0; x <= g.XMax; x++ {
			if g.Pixel(x, y) {
				r.Set(r.XMax-y, x, true)
			}
		}
	}
	return r
}

// Flip mirrors the grid horizontally: (x, y) moves to (XMax-x, y).
func (g Grid) Flip() Grid {
	f := NewGrid(g.XMax, g.YMax)
	for y := 0; y <= g.YMax; y++ {
		for x := 0; x <= g.XMax; x++ {
			if g.Pixel(x, y) {
				f.Set(g.XMax-x, y, true)
			}
		}
	}
	return f
}

// Equal reports whether both grids have the same extents and pixels.
func (g Grid) Equal(o Grid) bool {
	if g.XMax != o.XMax || g.YMax != o.YMax {
		return false
	}
	for y := 0; y <= g.YMax; y++ {
		for x := 0; x <= g.XMax; x++ {
			if g.Pixel(x, y) != o.Pixel(x, y) {
				return false
			}
		}
	}
	return true
}

// Count returns the number of filled pixels.
func (g Grid) Count() int {
	n := 0
	for _, v := range g.pix {
		if v {
			n++
		}
	}
	return n
}

// Filled returns the filled coordinates sorted by x, then y.
func (g Grid) Filled() []Coord {
	var out []Coord
	for x := 0; x <= g.XMax; x++ {
		for y := 0; y <= g.YMax; y++ {
			if g.Pixel(x, y) {
				out = append(out, Coord{X: x, Y: y})
			}
		}
	}
	return out
}

// Interior returns the grid with its outermost ring removed. Grids narrower
// than three pixels in either axis have no interior.
func (g Grid) Interior() Grid {
	if g.XMax < 2 || g.YMax < 2 {
		return Grid{XMax: -1, YMax: -1}
	}
	in := NewGrid(g.XMax-2, g.YMax-2)
	for y := 1; y < g.YMax; y++ {
		for x := 1; x < g.XMax; x++ {
			if g.Pixel(x, y) {
				in.Set(x-1, y-1, true)
			}
		}
	}
	return in
}

// String renders the grid top row first using '#' and '.'.
func (g Grid) String() string {
	var b strings.Builder
	for y := g.YMax; y >= 0; y-- {
		for x := 0; x <= g.XMax; x++ {
			if g.Pixel(x, y) {
				b.WriteByte(filledMarker)
			} else {
				b.WriteByte(emptyMarker)
			}
		}
		if y > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Tile is an identified grid. Transforms keep the ID.
type Tile struct {
	ID int
	Grid
}

// Rotate returns the tile turned a quarter turn counter-clockwise.
func (t Tile) Rotate() Tile { return Tile{ID: t.ID, Grid: t.Grid.Rotate()} }

// Flip returns the tile mirrored horizontally.
func (t Tile) Flip() Tile { return Tile{ID: t.ID, Grid: t.Grid.Flip()} }

// String renders the tile in the puzzle input format.
func (t Tile) String() string {
	return "Tile " + strconv.Itoa(t.ID) + ":\n" + t.Grid.String()
}

// sortCoords orders coordinates by x, then y.
func sortCoords(cs []Coord) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].X != cs[j].X {
			return cs[i].X < cs[j].X
		}
		return cs[i].Y < cs[j].Y
	})
}
