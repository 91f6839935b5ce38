package mosaic

import (
	"math/rand"
	"testing"
)

// gridFromRows builds a grid from text rows, top row first.
func gridFromRows(t *testing.T, rows ...string) Grid {
	t.Helper()
	if len(rows) == 0 {
		t.Fatal("gridFromRows: no rows")
	}
	return buildTile(0, rows).Grid
}

// edgeCodes returns values of the given bit width that differ from each other
// both as written and reversed, and that are not palindromes. Borders built
// from them can only line up with their true neighbour.
func edgeCodes(bits int) []int {
	var codes []int
	for v := 1; v < 1<<bits; v++ {
		rev := 0
		for b := 0; b < bits; b++ {
			if v&(1<<b) != 0 {
				rev |= 1 << (bits - 1 - b)
			}
		}
		if v < rev {
			codes = append(codes, v)
		}
	}
	return codes
}

// puzzle is a generated, solvable tile set.
type puzzle struct {
	tiles []Tile
	// layout holds the true position of each tile ID.
	layout map[Coord]int
	cols   int
	rows   int
}

func (p puzzle) checksum() uint64 {
	return uint64(p.layout[Coord{0, 0}]) *
		uint64(p.layout[Coord{p.cols - 1, 0}]) *
		uint64(p.layout[Coord{0, p.rows - 1}]) *
		uint64(p.layout[Coord{p.cols - 1, p.rows - 1}])
}

// cutPicture slices picture into cols×rows square tiles of side n whose
// interiors, stitched back together, are picture. Every border carries a
// unique code so that the layout is unambiguous. With rng set, tiles are
// turned into random orientations and shuffled; the first returned tile is
// then placed at an arbitrary orientation.
func cutPicture(t *testing.T, picture Grid, cols, rows, n int, rng *rand.Rand) puzzle {
	t.Helper()
	inner := n - 2
	if picture.Width() != cols*inner || picture.Height() != rows*inner {
		t.Fatalf("picture is %dx%d, want %dx%d", picture.Width(), picture.Height(), cols*inner, rows*inner)
	}

	step := n - 1
	lattice := NewGrid(cols*step, rows*step)
	codes := edgeCodes(inner)
	next := 0
	code := func() int {
		if next >= len(codes) {
			t.Fatal("cutPicture: ran out of edge codes")
		}
		c := codes[next]
		next++
		return c
	}

	// Vertical borders.
	for lx := 0; lx <= cols; lx++ {
		for j := 0; j < rows; j++ {
			c := code()
			for k := 0; k < inner; k++ {
				lattice.Set(lx*step, j*step+1+k, c&(1<<k) != 0)
			}
		}
	}
	// Horizontal borders.
	for ly := 0; ly <= rows; ly++ {
		for i := 0; i < cols; i++ {
			c := code()
			for k := 0; k < inner; k++ {
				lattice.Set(i*step+1+k, ly*step, c&(1<<k) != 0)
			}
		}
	}
	// Interiors.
	for _, p := range picture.Filled() {
		i, j := p.X/inner, p.Y/inner
		lattice.Set(i*step+p.X%inner+1, j*step+p.Y%inner+1, true)
	}

	pz := puzzle{layout: make(map[Coord]int), cols: cols, rows: rows}
	id := 1201
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			g := NewGrid(n-1, n-1)
			for y := 0; y < n; y++ {
				for x := 0; x < n; x++ {
					g.Set(x, y, lattice.Pixel(i*step+x, j*step+y))
				}
			}
			tile := Tile{ID: id, Grid: g}
			pz.layout[Coord{i, j}] = id
			id += 17
			if rng != nil {
				tile = canonical[rng.Intn(len(canonical))].ApplyTile(tile)
			}
			pz.tiles = append(pz.tiles, tile)
		}
	}
	if rng != nil {
		rng.Shuffle(len(pz.tiles), func(a, b int) {
			pz.tiles[a], pz.tiles[b] = pz.tiles[b], pz.tiles[a]
		})
	}
	return pz
}

// stamp draws every pixel of m with its anchor at a.
func stamp(g Grid, m Motif, a Coord) {
	for _, off := range m.Offsets() {
		p := a.Add(off)
		g.Set(p.X, p.Y, true)
	}
}
