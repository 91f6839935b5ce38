package mosaic

import "fmt"

// Compose stitches the interiors of all placed tiles into one picture. The
// outer ring of every tile is dropped; each tile contributes a
// (XMax-1)×(YMax-1) block at its position in the bounding box.
func Compose(space *Space) (Grid, error) {
	if space == nil || space.Len() == 0 {
		return Grid{}, ErrNoTiles
	}

	seed, ok := space.At(Coord{X: space.XMin, Y: space.YMin})
	if !ok {
		return Grid{}, fmt.Errorf("no tile at (%d,%d): %w", space.XMin, space.YMin, ErrIncompleteLayout)
	}
	if seed.XMax < 2 || seed.YMax < 2 {
		return Grid{}, fmt.Errorf("tiles of %dx%d have no interior: %w",
			seed.Width(), seed.Height(), ErrDimensionMismatch)
	}
	cellW, cellH := seed.XMax-1, seed.YMax-1

	picture := NewGrid(cellW*space.Columns()-1, cellH*space.Rows()-1)

	for x := space.XMin; x <= space.XMax; x++ {
		for y := space.YMin; y <= space.YMax; y++ {
			t, ok := space.At(Coord{X: x, Y: y})
			if !ok {
				return Grid{}, fmt.Errorf("no tile at (%d,%d): %w", x, y, ErrIncompleteLayout)
			}
			if t.XMax != seed.XMax || t.YMax != seed.YMax {
				return Grid{}, fmt.Errorf("tile %d at (%d,%d): %w", t.ID, x, y, ErrDimensionMismatch)
			}

			offX := cellW * (x - space.XMin)
			offY := cellH * (y - space.YMin)
			for ly := 1; ly < t.YMax; ly++ {
				for lx := 1; lx < t.XMax; lx++ {
					if t.Pixel(lx, ly) {
						picture.Set(offX+lx-1, offY+ly-1, true)
					}
				}
			}
		}
	}

	return picture, nil
}

// LayoutPixel locates a pixel of the composed picture in the layout: the
// tile coordinate it came from and the pixel's position inside that tile,
// border included.
func LayoutPixel(space *Space, c Coord) (tile Coord, local Coord, ok bool) {
	if space == nil || space.Len() == 0 {
		return Coord{}, Coord{}, false
	}
	seed, _ := space.At(Coord{X: space.XMin, Y: space.YMin})
	cellW, cellH := seed.XMax-1, seed.YMax-1
	if cellW <= 0 || cellH <= 0 || c.X < 0 || c.Y < 0 {
		return Coord{}, Coord{}, false
	}
	tile = Coord{X: space.XMin + c.X/cellW, Y: space.YMin + c.Y/cellH}
	if _, placed := space.At(tile); !placed {
		return Coord{}, Coord{}, false
	}
	return tile, Coord{X: c.X%cellW + 1, Y: c.Y%cellH + 1}, true
}
