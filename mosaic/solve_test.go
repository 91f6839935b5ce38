package mosaic

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

// monsterPuzzle returns a scrambled 3x3 puzzle of 10x10 tiles whose picture
// holds one sea monster and one stray pixel.
func monsterPuzzle(t *testing.T, seed int64) puzzle {
	t.Helper()
	picture := blankPicture(3, 3, 10)
	stamp(picture, SeaMonster, Coord{2, 5})
	picture.Set(20, 20, true)
	return cutPicture(t, picture, 3, 3, 10, rand.New(rand.NewSource(seed)))
}

func TestSolve(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		pz := monsterPuzzle(t, seed)

		res, err := Solve(pz.tiles, SeaMonster)
		if err != nil {
			t.Fatalf("seed %d: Solve() error: %v", seed, err)
		}
		if res.Checksum != pz.checksum() {
			t.Errorf("seed %d: Checksum = %d, want %d", seed, res.Checksum, pz.checksum())
		}
		if res.Roughness != 1 {
			t.Errorf("seed %d: Roughness = %d, want 1", seed, res.Roughness)
		}
		if res.Occurrences != 1 {
			t.Errorf("seed %d: Occurrences = %d, want 1", seed, res.Occurrences)
		}
		if res.TileCount != 9 || res.Columns != 3 || res.Rows != 3 {
			t.Errorf("seed %d: layout %d tiles %dx%d", seed, res.TileCount, res.Columns, res.Rows)
		}
		if len(res.Placements) != 9 {
			t.Errorf("seed %d: %d placements, want 9", seed, len(res.Placements))
		}
		if !res.HasImage() || res.Space() == nil {
			t.Errorf("seed %d: result lost its picture", seed)
		}
	}
}

func TestSolve_ThroughTextFormat(t *testing.T) {
	pz := monsterPuzzle(t, 3)

	var buf bytes.Buffer
	if err := FormatTiles(&buf, pz.tiles); err != nil {
		t.Fatalf("FormatTiles() error: %v", err)
	}
	tiles, err := ParseTiles(&buf)
	if err != nil {
		t.Fatalf("ParseTiles() error: %v", err)
	}

	res, err := Solve(tiles, SeaMonster)
	if err != nil {
		t.Fatalf("Solve() error: %v", err)
	}
	if res.Checksum != pz.checksum() || res.Roughness != 1 {
		t.Errorf("Solve() = checksum %d roughness %d; want %d, 1", res.Checksum, res.Roughness, pz.checksum())
	}
}

func TestSolve_Errors(t *testing.T) {
	pz := cutPicture(t, blankPicture(2, 2, 10), 2, 2, 10, nil)

	_, err := Solve(pz.tiles, SeaMonster)
	if !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("Solve(no monster) error = %v, want ErrPatternNotFound", err)
	}

	tiles := append(append([]Tile{}, pz.tiles...), solidBorderTile(1, 10))
	_, err = Solve(tiles, SeaMonster)
	if !errors.Is(err, ErrAssemblyStuck) {
		t.Errorf("Solve(orphan) error = %v, want ErrAssemblyStuck", err)
	}

	_, err = Solve(nil, SeaMonster)
	if !errors.Is(err, ErrNoTiles) {
		t.Errorf("Solve(nil) error = %v, want ErrNoTiles", err)
	}
}
