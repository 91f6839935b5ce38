package mosaic

import (
	"fmt"
	"time"
)

// Result holds both puzzle answers plus enough of the intermediate state to
// render or export the solution.
type Result struct {
	Name        string      `json:"name,omitempty"`
	Checksum    uint64      `json:"checksum"`
	Roughness   int         `json:"roughness"`
	TileCount   int         `json:"tileCount"`
	Columns     int         `json:"columns"`
	Rows        int         `json:"rows"`
	Motif       string      `json:"motif"`
	Orientation Orientation `json:"orientation"`
	Occurrences int         `json:"occurrences"`
	Placements  []Placement `json:"placements,omitempty"`
	SolvedAt    int64       `json:"solvedAt"`

	space  *Space
	search *SearchResult
}

// Space returns the assembled layout, or nil for results loaded from disk.
func (r *Result) Space() *Space { return r.space }

// Search returns the motif search outcome, or nil for results loaded from
// disk.
func (r *Result) Search() *SearchResult { return r.search }

// HasImage reports whether the result still carries its picture.
func (r *Result) HasImage() bool { return r != nil && r.search != nil }

// Solve assembles the tiles, stitches the picture, searches it for m and
// scores the outcome.
func Solve(tiles []Tile, m Motif) (*Result, error) {
	space, err := Assemble(tiles)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	checksum, err := space.Checksum()
	if err != nil {
		return nil, fmt.Errorf("checksum: %w", err)
	}

	picture, err := Compose(space)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	found, err := Search(picture, m)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &Result{
		Checksum:    checksum,
		Roughness:   found.Roughness(),
		TileCount:   space.Len(),
		Columns:     space.Columns(),
		Rows:        space.Rows(),
		Motif:       m.Name(),
		Orientation: found.Orientation,
		Occurrences: len(found.Anchors),
		Placements:  space.Placements(),
		SolvedAt:    time.Now().Unix(),
		space:       space,
		search:      found,
	}, nil
}
