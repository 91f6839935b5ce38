package mosaic

import (
	"fmt"
	"iter"
)

// Orientation is one element of the dihedral group of the square: rotate
// counter-clockwise by Rotations quarter turns, then mirror horizontally if
// Flipped.
type Orientation struct {
	Rotations int  `json:"rotations"`
	Flipped   bool `json:"flipped"`
}

// Identity leaves a grid unchanged.
var Identity = Orientation{}

// canonical is the fixed search order. Each entry is one Rotate or one Flip
// away from the previous: id, r, r², r³, then flip, then three more rotations.
var canonical = [8]Orientation{
	{0, false},
	{1, false},
	{2, false},
	{3, false},
	{3, true},
	{2, true},
	{1, true},
	{0, true},
}

func (o Orientation) String() string {
	s := fmt.Sprintf("rot%d", (o.Rotations%4)*90)
	if o.Flipped {
		s += "+flip"
	}
	return s
}

// matrix2 is the linear part of an orientation acting on column vectors.
type matrix2 [2][2]int

var (
	identity2 = matrix2{{1, 0}, {0, 1}}
	rot90     = matrix2{{0, -1}, {1, 0}}
	mirrorX   = matrix2{{-1, 0}, {0, 1}}
)

// mul composes two matrices: applying m.mul(n) is applying n first, then m.
func (m matrix2) mul(n matrix2) matrix2 {
	return matrix2{
		{m[0][0]*n[0][0] + m[0][1]*n[1][0], m[0][0]*n[0][1] + m[0][1]*n[1][1]},
		{m[1][0]*n[0][0] + m[1][1]*n[1][0], m[1][0]*n[0][1] + m[1][1]*n[1][1]},
	}
}

func (o Orientation) matrix() matrix2 {
	m := identity2
	for i := 0; i < ((o.Rotations%4)+4)%4; i++ {
		m = rot90.mul(m)
	}
	if o.Flipped {
		m = mirrorX.mul(m)
	}
	return m
}

func fromMatrix(m matrix2) Orientation {
	for _, o := range canonical {
		if o.matrix() == m {
			return o
		}
	}
	// Unreachable for products of group elements.
	panic(fmt.Sprintf("mosaic: %v is not a symmetry of the square", m))
}

// Normalize maps any rotation count into 0..3.
func (o Orientation) Normalize() Orientation {
	return Orientation{Rotations: ((o.Rotations % 4) + 4) % 4, Flipped: o.Flipped}
}

// Then returns the orientation equivalent to applying o and then next.
func (o Orientation) Then(next Orientation) Orientation {
	return fromMatrix(next.matrix().mul(o.matrix()))
}

// Inverse returns the orientation that undoes o.
func (o Orientation) Inverse() Orientation {
	for _, c := range canonical {
		if o.Then(c) == Identity {
			return c
		}
	}
	panic("mosaic: orientation without inverse")
}

// Apply transforms a grid into this orientation.
func (o Orientation) Apply(g Grid) Grid {
	o = o.Normalize()
	for i := 0; i < o.Rotations; i++ {
		g = g.Rotate()
	}
	if o.Flipped {
		g = g.Flip()
	}
	return g
}

// ApplyTile transforms a tile into this orientation, keeping its ID.
func (o Orientation) ApplyTile(t Tile) Tile {
	return Tile{ID: t.ID, Grid: o.Apply(t.Grid)}
}

// orientations walks the canonical sequence, deriving each variant from the
// previous one with a single rotate or flip.
func orientations[T any](start T, rotate, flip func(T) T) iter.Seq2[Orientation, T] {
	return func(yield func(Orientation, T) bool) {
		cur := start
		for i, o := range canonical {
			switch {
			case i == 4:
				cur = flip(cur)
			case i > 0:
				cur = rotate(cur)
			}
			if !yield(o, cur) {
				return
			}
		}
	}
}

// Orientations yields the grid in all eight orientations in canonical order.
func (g Grid) Orientations() iter.Seq2[Orientation, Grid] {
	return orientations(g, Grid.Rotate, Grid.Flip)
}

// Orientations yields the tile in all eight orientations in canonical order.
func (t Tile) Orientations() iter.Seq2[Orientation, Tile] {
	return orientations(t, Tile.Rotate, Tile.Flip)
}

// MapCoord returns where the pixel at c of an (xmax+1)×(ymax+1) grid lands
// after Apply, along with the transformed grid's extents.
func (o Orientation) MapCoord(c Coord, xmax, ymax int) (Coord, int, int) {
	o = o.Normalize()
	for i := 0; i < o.Rotations; i++ {
		c = Coord{X: ymax - c.Y, Y: c.X}
		xmax, ymax = ymax, xmax
	}
	if o.Flipped {
		c.X = xmax - c.X
	}
	return c, xmax, ymax
}
