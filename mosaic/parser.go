package mosaic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var tileHeaderRe = regexp.MustCompile(`^Tile (\d+):$`)

// ParseTileFile reads and parses a puzzle input file.
func ParseTileFile(path string) ([]Tile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return ParseTiles(bytes.NewReader(data))
}

// ParseTiles parses blank-line separated tile blocks. Each block starts with
// "Tile <id>:" followed by equal-length rows of '#' and '.', top row first.
func ParseTiles(r io.Reader) ([]Tile, error) {
	var (
		tiles  []Tile
		seen   = make(map[int]int) // id -> header line
		id     int
		header int
		rows   []string
		lineNo int
	)

	flush := func() error {
		if header == 0 {
			return nil
		}
		if len(rows) == 0 {
			return &ParseError{Line: header, Msg: fmt.Sprintf("tile %d has no rows", id)}
		}
		tiles = append(tiles, buildTile(id, rows))
		header, rows = 0, nil
		return nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")

		switch {
		case line == "":
			if err := flush(); err != nil {
				return nil, err
			}

		case header == 0:
			m := tileHeaderRe.FindStringSubmatch(line)
			if m == nil {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected tile header, got %q", line)}
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("bad tile id %q", m[1])}
			}
			if prev, dup := seen[n]; dup {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("tile %d already defined on line %d", n, prev)}
			}
			seen[n] = lineNo
			id, header = n, lineNo

		default:
			if strings.Trim(line, string([]byte{filledMarker, emptyMarker})) != "" {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unexpected character in row %q", line)}
			}
			if len(rows) > 0 && len(line) != len(rows[0]) {
				return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("row length %d, want %d", len(line), len(rows[0]))}
			}
			rows = append(rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading tiles: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return tiles, nil
}

// buildTile converts rows (top first) into a bottom-origin tile.
func buildTile(id int, rows []string) Tile {
	g := NewGrid(len(rows[0])-1, len(rows)-1)
	for i, row := range rows {
		y := len(rows) - 1 - i
		for x := 0; x < len(row); x++ {
			if row[x] == filledMarker {
				g.Set(x, y, true)
			}
		}
	}
	return Tile{ID: id, Grid: g}
}

// FormatTiles writes tiles back out in the input format.
func FormatTiles(w io.Writer, tiles []Tile) error {
	for i, t := range tiles {
		sep := "\n\n"
		if i == len(tiles)-1 {
			sep = "\n"
		}
		if _, err := io.WriteString(w, t.String()+sep); err != nil {
			return err
		}
	}
	return nil
}
