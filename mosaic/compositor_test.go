package mosaic

import (
	"errors"
	"testing"
)

// centreTile is a 3x3 tile with a full border and the given centre pixel.
func centreTile(id int, centre bool) Tile {
	t := solidBorderTile(id, 3)
	t.Set(1, 1, centre)
	return t
}

func TestCompose_DropsBorders(t *testing.T) {
	space := NewSpace()
	space.Insert(Coord{0, 0}, centreTile(2, true), Identity)
	space.Insert(Coord{1, 0}, centreTile(3, false), Identity)
	space.Insert(Coord{0, 1}, centreTile(5, false), Identity)
	space.Insert(Coord{1, 1}, centreTile(7, true), Identity)

	picture, err := Compose(space)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	want := gridFromRows(t,
		".#",
		"#.",
	)
	if !picture.Equal(want) {
		t.Errorf("Compose() =\n%s\nwant\n%s", picture, want)
	}

	sum, err := space.Checksum()
	if err != nil {
		t.Fatalf("Checksum() error: %v", err)
	}
	if sum != 2*3*5*7 {
		t.Errorf("Checksum() = %d, want %d", sum, 2*3*5*7)
	}
}

func TestCompose_NegativeCoordinates(t *testing.T) {
	// Bounding boxes starting below zero still produce a 0-based picture.
	space := NewSpace()
	space.Insert(Coord{-1, -2}, centreTile(1, true), Identity)
	space.Insert(Coord{0, -2}, centreTile(2, false), Identity)

	picture, err := Compose(space)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if picture.Width() != 2 || picture.Height() != 1 {
		t.Fatalf("picture is %dx%d, want 2x1", picture.Width(), picture.Height())
	}
	if !picture.Pixel(0, 0) || picture.Pixel(1, 0) {
		t.Errorf("picture = %q, want %q", picture.String(), "#.")
	}
}

func TestCompose_GeneratedPicture(t *testing.T) {
	picture := blankPicture(2, 2, 10)
	for _, c := range []Coord{{0, 0}, {7, 3}, {8, 8}, {15, 15}, {3, 12}} {
		picture.Set(c.X, c.Y, true)
	}
	pz := cutPicture(t, picture, 2, 2, 10, nil)

	space, err := Assemble(pz.tiles)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	got, err := Compose(space)
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	if !got.Equal(picture) {
		t.Errorf("Compose() =\n%s\nwant\n%s", got, picture)
	}
}

func TestCompose_Errors(t *testing.T) {
	if _, err := Compose(nil); !errors.Is(err, ErrNoTiles) {
		t.Errorf("Compose(nil) error = %v, want ErrNoTiles", err)
	}
	if _, err := Compose(NewSpace()); !errors.Is(err, ErrNoTiles) {
		t.Errorf("Compose(empty) error = %v, want ErrNoTiles", err)
	}

	holey := NewSpace()
	holey.Insert(Coord{0, 0}, centreTile(1, true), Identity)
	holey.Insert(Coord{1, 1}, centreTile(2, true), Identity)
	if _, err := Compose(holey); !errors.Is(err, ErrIncompleteLayout) {
		t.Errorf("Compose(holey) error = %v, want ErrIncompleteLayout", err)
	}

	// The bottom-left cell is the one that is empty.
	noOrigin := NewSpace()
	noOrigin.Insert(Coord{1, 0}, centreTile(1, true), Identity)
	noOrigin.Insert(Coord{0, 1}, centreTile(2, true), Identity)
	noOrigin.Insert(Coord{1, 1}, centreTile(3, true), Identity)
	if _, err := Compose(noOrigin); !errors.Is(err, ErrIncompleteLayout) {
		t.Errorf("Compose(no bottom-left tile) error = %v, want ErrIncompleteLayout", err)
	}

	tiny := NewSpace()
	tiny.Insert(Coord{}, Tile{ID: 1, Grid: NewGrid(1, 1)}, Identity)
	if _, err := Compose(tiny); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Compose(2x2 tiles) error = %v, want ErrDimensionMismatch", err)
	}
}

func TestLayoutPixel(t *testing.T) {
	space := NewSpace()
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			space.Insert(Coord{x + 3, y - 1}, solidBorderTile(x*2+y+1, 5), Identity)
		}
	}

	tests := []struct {
		pixel     Coord
		wantTile  Coord
		wantLocal Coord
		wantOK    bool
	}{
		{Coord{0, 0}, Coord{3, -1}, Coord{1, 1}, true},
		{Coord{2, 2}, Coord{3, -1}, Coord{3, 3}, true},
		{Coord{3, 0}, Coord{4, -1}, Coord{1, 1}, true},
		{Coord{5, 4}, Coord{4, 0}, Coord{3, 2}, true},
		{Coord{6, 0}, Coord{}, Coord{}, false},
		{Coord{-1, 0}, Coord{}, Coord{}, false},
	}
	for _, tt := range tests {
		tile, local, ok := LayoutPixel(space, tt.pixel)
		if ok != tt.wantOK || tile != tt.wantTile || local != tt.wantLocal {
			t.Errorf("LayoutPixel(%v) = %v, %v, %v; want %v, %v, %v",
				tt.pixel, tile, local, ok, tt.wantTile, tt.wantLocal, tt.wantOK)
		}
	}
}

func TestSpace_CornersIncomplete(t *testing.T) {
	space := NewSpace()
	space.Insert(Coord{0, 0}, centreTile(1, true), Identity)
	space.Insert(Coord{1, 0}, centreTile(2, true), Identity)
	space.Insert(Coord{1, 1}, centreTile(3, true), Identity)
	if _, err := space.Checksum(); !errors.Is(err, ErrIncompleteLayout) {
		t.Errorf("Checksum() error = %v, want ErrIncompleteLayout", err)
	}
}

func TestSpace_FitsRequiresNeighbour(t *testing.T) {
	space := NewSpace()
	space.Insert(Coord{}, centreTile(1, false), Identity)
	other := centreTile(2, false)

	ok, err := space.Fits(other, Coord{5, 5})
	if err != nil || ok {
		t.Errorf("Fits(detached) = %v, %v; want false, nil", ok, err)
	}
	ok, err = space.Fits(other, Coord{})
	if err != nil || ok {
		t.Errorf("Fits(occupied) = %v, %v; want false, nil", ok, err)
	}
	// Solid borders match each other on every side.
	ok, err = space.Fits(other, Coord{1, 0})
	if err != nil || !ok {
		t.Errorf("Fits(adjacent) = %v, %v; want true, nil", ok, err)
	}
}
