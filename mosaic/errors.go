package mosaic

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse marks malformed tile or motif input.
	ErrParse = errors.New("parse error")

	// ErrDimensionMismatch is returned when two tiles with different extents
	// along the compared axis are matched against each other.
	ErrDimensionMismatch = errors.New("tile dimension mismatch")

	// ErrAssemblyStuck is returned when a full pass over the pending tiles
	// places nothing.
	ErrAssemblyStuck = errors.New("assembly stuck")

	// ErrPatternNotFound is returned when no orientation of the picture
	// contains the motif.
	ErrPatternNotFound = errors.New("motif not found in any orientation")

	// ErrNoTiles is returned when assembly is asked to run on an empty set.
	ErrNoTiles = errors.New("no tiles to assemble")

	// ErrIncompleteLayout is returned when the assembled layout has holes
	// inside its bounding box.
	ErrIncompleteLayout = errors.New("layout is not a filled rectangle")
)

// ParseError describes a problem at a specific line of the input.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// Unwrap lets errors.Is(err, ErrParse) succeed.
func (e *ParseError) Unwrap() error { return ErrParse }

// DimensionError reports the two extents that failed to line up.
type DimensionError struct {
	Axis        string // "x" or "y"
	Left, Right int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v: %s extent %d vs %d", ErrDimensionMismatch, e.Axis, e.Left, e.Right)
}

func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// StuckError lists the tiles that could not be placed.
type StuckError struct {
	Placed  int
	Pending []int
}

func (e *StuckError) Error() string {
	ids := make([]string, len(e.Pending))
	for i, id := range e.Pending {
		ids[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("%v after placing %d tiles; unplaceable: %s",
		ErrAssemblyStuck, e.Placed, strings.Join(ids, ", "))
}

func (e *StuckError) Unwrap() error { return ErrAssemblyStuck }
