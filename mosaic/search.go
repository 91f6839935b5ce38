package mosaic

import "fmt"

// SearchResult is the outcome of scanning a picture for a motif.
type SearchResult struct {
	// Orientation is the first orientation, in canonical order, that
	// contained at least one occurrence.
	Orientation Orientation
	// Picture is the input picture turned into that orientation.
	Picture Grid
	// Anchors are the bottom-left corners of every occurrence.
	Anchors []Coord
	// Matched holds every picture pixel covered by an occurrence.
	Matched map[Coord]struct{}
}

// Roughness counts filled pixels that are not part of any occurrence.
func (r *SearchResult) Roughness() int {
	return r.Picture.Count() - len(r.Matched)
}

// MatchAt reports whether every motif pixel, offset by anchor, is filled.
// Offsets that fall outside the picture fail the match.
func MatchAt(picture Grid, m Motif, anchor Coord) bool {
	for _, off := range m.offsets {
		p := anchor.Add(off)
		if !picture.Pixel(p.X, p.Y) {
			return false
		}
	}
	return true
}

// FindMotif scans a single orientation of picture and returns the anchors of
// all occurrences together with the union of their pixels. Occurrences may
// overlap.
func FindMotif(picture Grid, m Motif) ([]Coord, map[Coord]struct{}) {
	var anchors []Coord
	matched := make(map[Coord]struct{})
	if m.Len() == 0 {
		return anchors, matched
	}

	for x := 0; x+m.xmax <= picture.XMax; x++ {
		for y := 0; y+m.ymax <= picture.YMax; y++ {
			anchor := Coord{X: x, Y: y}
			if !MatchAt(picture, m, anchor) {
				continue
			}
			anchors = append(anchors, anchor)
			for _, off := range m.offsets {
				matched[anchor.Add(off)] = struct{}{}
			}
		}
	}
	return anchors, matched
}

// Search looks for the motif in each orientation of picture in canonical
// order, each derived from the previous one, and stops at the first
// orientation with at least one occurrence.
func Search(picture Grid, m Motif) (*SearchResult, error) {
	for o, oriented := range picture.Orientations() {
		anchors, matched := FindMotif(oriented, m)
		if len(matched) == 0 {
			continue
		}
		return &SearchResult{
			Orientation: o,
			Picture:     oriented,
			Anchors:     anchors,
			Matched:     matched,
		}, nil
	}
	return nil, fmt.Errorf("%s in %dx%d picture: %w", m.Name(), picture.Width(), picture.Height(), ErrPatternNotFound)
}

// UnorientedMatches maps the matched pixels back into the coordinate frame of
// the picture that was passed to Search.
func (r *SearchResult) UnorientedMatches() []Coord {
	inv := r.Orientation.Inverse()
	out := make([]Coord, 0, len(r.Matched))
	for c := range r.Matched {
		mc, _, _ := inv.MapCoord(c, r.Picture.XMax, r.Picture.YMax)
		out = append(out, mc)
	}
	sortCoords(out)
	return out
}
