package mosaic

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func monsterSearch(t *testing.T) *SearchResult {
	t.Helper()
	picture := NewGrid(23, 23)
	stamp(picture, SeaMonster, Coord{2, 5})
	picture.Set(20, 20, true)
	sr, err := Search(picture, SeaMonster)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	return sr
}

func TestPictureRenderer_Render(t *testing.T) {
	r := NewPictureRenderer(monsterSearch(t))
	r.Scale = 2
	r.Padding = 0

	img := r.Render()
	if b := img.Bounds(); b.Dx() != 48 || b.Dy() != 48 {
		t.Fatalf("image is %dx%d, want 48x48", b.Dx(), b.Dy())
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		// Picture y grows upward, so row 6 lands at image row (23-6)*2.
		{"motif pixel", 4, 34, r.Motif},
		{"stray pixel", 40, 6, r.Filled},
		{"empty pixel", 0, 46, r.Background},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s at (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestPictureRenderer_Legend(t *testing.T) {
	r := NewPictureRenderer(monsterSearch(t))
	r.Scale = 1
	r.Legend = "sea monster x1"
	img := r.Render()
	want := 24 + 2*r.Padding + legendHeight
	if img.Bounds().Dy() != want {
		t.Errorf("height = %d, want %d", img.Bounds().Dy(), want)
	}

	// Some legend pixel must differ from the background.
	drawn := false
	for y := r.Padding; y < r.Padding+legendHeight && !drawn; y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if img.RGBAAt(x, y) != r.Background {
				drawn = true
				break
			}
		}
	}
	if !drawn {
		t.Error("legend text was not drawn")
	}
}

func TestPictureRenderer_ApplyConfig(t *testing.T) {
	r := NewPictureRenderer(nil)
	err := r.ApplyConfig(RenderConfig{Scale: 3, FilledColor: "#102030", MotifColor: "FFFFFF"})
	if err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if r.Scale != 3 || r.Padding != DefaultPadding {
		t.Errorf("scale/padding = %d/%d", r.Scale, r.Padding)
	}
	if r.Filled != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Errorf("Filled = %v", r.Filled)
	}
	if r.Motif != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("Motif = %v", r.Motif)
	}

	if err := r.ApplyConfig(RenderConfig{MotifColor: "nope"}); err == nil {
		t.Error("expected error for invalid color")
	}
}

func TestPictureRenderer_SavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picture.png")
	if err := NewPictureRenderer(monsterSearch(t)).SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("saved file is not a PNG: %v", err)
	}
}

func TestRenderResultPNG(t *testing.T) {
	res, err := Solve(monsterPuzzle(t, 5).tiles, SeaMonster)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := RenderResultPNG(&buf, res, RenderConfig{}); err != nil {
		t.Fatalf("RenderResultPNG: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}

	if err := RenderResultPNG(&buf, &Result{}, RenderConfig{}); err == nil {
		t.Error("expected error for a result without picture")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00ff7f", color.RGBA{0, 255, 127, 255}, false},
		{"#FFF", color.RGBA{}, true},
		{"#GG0000", color.RGBA{}, true},
		{"", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := parseHexColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseHexColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
