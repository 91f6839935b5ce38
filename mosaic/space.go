package mosaic

import "fmt"

// Placement records where a tile ended up and how it was turned.
type Placement struct {
	ID          int         `json:"id"`
	Coord       Coord       `json:"coord"`
	Orientation Orientation `json:"orientation"`
}

// Space is the sparse layout of placed tiles plus the bounding box of the
// occupied coordinates. Every pair of axis-adjacent tiles in a Space matches
// on its shared edge; tiles are never moved once inserted.
type Space struct {
	tiles       map[Coord]Tile
	orientation map[Coord]Orientation

	XMin, XMax int
	YMin, YMax int
}

// NewSpace returns an empty layout.
func NewSpace() *Space {
	return &Space{
		tiles:       make(map[Coord]Tile),
		orientation: make(map[Coord]Orientation),
	}
}

// Len returns the number of placed tiles.
func (s *Space) Len() int { return len(s.tiles) }

// Columns is the bounding box width in tiles.
func (s *Space) Columns() int {
	if s.Len() == 0 {
		return 0
	}
	return s.XMax - s.XMin + 1
}

// Rows is the bounding box height in tiles.
func (s *Space) Rows() int {
	if s.Len() == 0 {
		return 0
	}
	return s.YMax - s.YMin + 1
}

// At returns the tile placed at c, already in its placed orientation.
func (s *Space) At(c Coord) (Tile, bool) {
	t, ok := s.tiles[c]
	return t, ok
}

// Insert stores an already-oriented tile at c and grows the bounding box.
// Callers are responsible for checking Fits first.
func (s *Space) Insert(c Coord, t Tile, o Orientation) {
	if len(s.tiles) == 0 {
		s.XMin, s.XMax, s.YMin, s.YMax = c.X, c.X, c.Y, c.Y
	}
	s.tiles[c] = t
	s.orientation[c] = o

	if c.X < s.XMin {
		s.XMin = c.X
	}
	if c.X > s.XMax {
		s.XMax = c.X
	}
	if c.Y < s.YMin {
		s.YMin = c.Y
	}
	if c.Y > s.YMax {
		s.YMax = c.Y
	}
}

// Coords returns the occupied coordinates ordered by x, then y.
func (s *Space) Coords() []Coord {
	cs := make([]Coord, 0, len(s.tiles))
	for c := range s.tiles {
		cs = append(cs, c)
	}
	sortCoords(cs)
	return cs
}

// Placements lists every placed tile ordered by coordinate.
func (s *Space) Placements() []Placement {
	coords := s.Coords()
	out := make([]Placement, len(coords))
	for i, c := range coords {
		out[i] = Placement{ID: s.tiles[c].ID, Coord: c, Orientation: s.orientation[c]}
	}
	return out
}

// Fits reports whether t, as given, can go at c: the cell must be empty, at
// least one axis neighbour must be occupied, and every occupied neighbour
// must share a matching edge with t.
func (s *Space) Fits(t Tile, c Coord) (bool, error) {
	if _, taken := s.tiles[c]; taken {
		return false, nil
	}

	adjacent := false

	if left, ok := s.tiles[Coord{c.X - 1, c.Y}]; ok {
		adjacent = true
		if ok, err := HorizontalMatch(left.Grid, t.Grid); err != nil || !ok {
			return false, err
		}
	}
	if right, ok := s.tiles[Coord{c.X + 1, c.Y}]; ok {
		adjacent = true
		if ok, err := HorizontalMatch(t.Grid, right.Grid); err != nil || !ok {
			return false, err
		}
	}
	if above, ok := s.tiles[Coord{c.X, c.Y + 1}]; ok {
		adjacent = true
		if ok, err := VerticalMatch(above.Grid, t.Grid); err != nil || !ok {
			return false, err
		}
	}
	if below, ok := s.tiles[Coord{c.X, c.Y - 1}]; ok {
		adjacent = true
		if ok, err := VerticalMatch(t.Grid, below.Grid); err != nil || !ok {
			return false, err
		}
	}

	return adjacent, nil
}

// Fit tries t at c in every orientation, in canonical order, and returns the
// first one that fits.
func (s *Space) Fit(t Tile, c Coord) (Tile, Orientation, bool, error) {
	for o, variant := range t.Orientations() {
		ok, err := s.Fits(variant, c)
		if err != nil {
			return Tile{}, Orientation{}, false, err
		}
		if ok {
			return variant, o, true, nil
		}
	}
	return Tile{}, Orientation{}, false, nil
}

// Corners returns the tiles at the bounding box corners in the order
// (xmax,ymax), (xmax,ymin), (xmin,ymax), (xmin,ymin).
func (s *Space) Corners() ([4]Tile, error) {
	var out [4]Tile
	coords := [4]Coord{
		{s.XMax, s.YMax},
		{s.XMax, s.YMin},
		{s.XMin, s.YMax},
		{s.XMin, s.YMin},
	}
	for i, c := range coords {
		t, ok := s.tiles[c]
		if !ok {
			return out, fmt.Errorf("corner (%d,%d) is empty: %w", c.X, c.Y, ErrIncompleteLayout)
		}
		out[i] = t
	}
	return out, nil
}

// Checksum multiplies the IDs of the four corner tiles.
func (s *Space) Checksum() (uint64, error) {
	corners, err := s.Corners()
	if err != nil {
		return 0, err
	}
	product := uint64(1)
	for _, t := range corners {
		product *= uint64(t.ID)
	}
	return product, nil
}
