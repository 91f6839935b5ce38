package mosaic

import (
	"fmt"
	"log"
)

// Assemble lays out all tiles so that every touching edge matches.
//
// The first tile is placed untransformed at (0,0). The rest are taken from a
// round-robin queue: each candidate is tried at every cell of the bounding
// box grown by one, scanning x then y, in every orientation. The first fit is
// kept; a tile that fits nowhere goes to the back of the queue. There is no
// backtracking, so once the queue has been cycled through without a single
// placement the input cannot be assembled and ErrAssemblyStuck is returned.
func Assemble(tiles []Tile) (*Space, error) {
	if len(tiles) == 0 {
		return nil, ErrNoTiles
	}

	seed := tiles[0]
	if seed.XMax != seed.YMax {
		return nil, fmt.Errorf("tile %d is not square: %w", seed.ID,
			&DimensionError{Axis: "x/y", Left: seed.Width(), Right: seed.Height()})
	}
	for _, t := range tiles[1:] {
		if t.XMax != seed.XMax || t.YMax != seed.YMax {
			return nil, fmt.Errorf("tile %d is %dx%d, tile %d is %dx%d: %w",
				t.ID, t.Width(), t.Height(), seed.ID, seed.Width(), seed.Height(), ErrDimensionMismatch)
		}
	}

	space := NewSpace()
	space.Insert(Coord{}, seed, Identity)

	queue := make([]Tile, len(tiles)-1)
	copy(queue, tiles[1:])

	stalled := 0
	attempts := 0
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		attempts++

		placed, err := space.place(t)
		if err != nil {
			return nil, fmt.Errorf("placing tile %d: %w", t.ID, err)
		}
		if placed {
			stalled = 0
			continue
		}

		queue = append(queue, t)
		stalled++
		if stalled >= len(queue) {
			pending := make([]int, len(queue))
			for i, q := range queue {
				pending[i] = q.ID
			}
			return nil, &StuckError{Placed: space.Len(), Pending: pending}
		}
	}

	log.Printf("[ASSEMBLY] placed %d tiles as %dx%d after %d attempts",
		space.Len(), space.Columns(), space.Rows(), attempts)
	return space, nil
}

// place inserts t at the first frontier cell where some orientation fits.
func (s *Space) place(t Tile) (bool, error) {
	xmin, xmax, ymin, ymax := s.XMin-1, s.XMax+1, s.YMin-1, s.YMax+1
	for x := xmin; x <= xmax; x++ {
		for y := ymin; y <= ymax; y++ {
			c := Coord{X: x, Y: y}
			variant, o, ok, err := s.Fit(t, c)
			if err != nil {
				return false, err
			}
			if ok {
				s.Insert(c, variant, o)
				return true, nil
			}
		}
	}
	return false, nil
}
