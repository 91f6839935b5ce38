package mosaic

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const legendHeight = 20

// PictureRenderer draws a searched picture as a PNG, highlighting motif pixels
type PictureRenderer struct {
	Search     *SearchResult
	Scale      int // Output pixels per picture pixel
	Padding    int // Border around the picture
	Background color.RGBA
	Filled     color.RGBA
	Motif      color.RGBA
	Legend     string // Optional caption drawn above the picture
}

// NewPictureRenderer creates a renderer with default settings
func NewPictureRenderer(sr *SearchResult) *PictureRenderer {
	return &PictureRenderer{
		Search:     sr,
		Scale:      DefaultScale,
		Padding:    DefaultPadding,
		Background: color.RGBA{240, 240, 240, 255},
		Filled:     color.RGBA{0, 0, 139, 255},   // Dark blue water
		Motif:      color.RGBA{255, 99, 71, 255}, // Tomato
	}
}

// ApplyConfig copies scale, padding and colors from the render config
func (r *PictureRenderer) ApplyConfig(rc RenderConfig) error {
	r.Scale = rc.RenderScale()
	r.Padding = rc.RenderPadding()
	if rc.FilledColor != "" {
		c, err := parseHexColor(rc.FilledColor)
		if err != nil {
			return err
		}
		r.Filled = c
	}
	if rc.MotifColor != "" {
		c, err := parseHexColor(rc.MotifColor)
		if err != nil {
			return err
		}
		r.Motif = c
	}
	return nil
}

// Render creates the image. Picture y grows upward, image y grows downward.
func (r *PictureRenderer) Render() *image.RGBA {
	scale := r.Scale
	if scale <= 0 {
		scale = 1
	}

	var pic Grid
	var matched map[Coord]struct{}
	if r.Search != nil {
		pic = r.Search.Picture
		matched = r.Search.Matched
	}

	top := r.Padding
	if r.Legend != "" {
		top += legendHeight
	}
	width := pic.Width()*scale + 2*r.Padding
	height := pic.Height()*scale + top + r.Padding
	if width <= 0 {
		width = 2*r.Padding + 1
	}
	if height <= 0 {
		height = top + r.Padding + 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, r.Background)
		}
	}

	for _, c := range pic.Filled() {
		col := r.Filled
		if _, ok := matched[c]; ok {
			col = r.Motif
		}
		ix := r.Padding + c.X*scale
		iy := top + (pic.YMax-c.Y)*scale
		fillRect(img, ix, iy, scale, scale, col)
	}

	if r.Legend != "" {
		drawText(img, r.Padding, r.Padding+13, r.Legend, color.RGBA{0, 0, 0, 255})
	}

	return img
}

// EncodePNG writes the rendered image as PNG
func (r *PictureRenderer) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.Render())
}

// SavePNG saves the rendered image to a file
func (r *PictureRenderer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return r.EncodePNG(f)
}

// RenderResultPNG renders a solved result with a legend to w
func RenderResultPNG(w io.Writer, res *Result, rc RenderConfig) error {
	if !res.HasImage() {
		return fmt.Errorf("result has no picture to render")
	}
	r := NewPictureRenderer(res.Search())
	if err := r.ApplyConfig(rc); err != nil {
		return err
	}
	r.Legend = fmt.Sprintf("%s x%d  roughness %d  %s",
		res.Motif, res.Occurrences, res.Roughness, res.Orientation)
	return r.EncodePNG(w)
}

// fillRect fills a w×h block with its top-left corner at (x, y)
func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	b := img.Bounds()
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			px, py := x+dx, y+dy
			if px >= b.Min.X && px < b.Max.X && py >= b.Min.Y && py < b.Max.Y {
				img.SetRGBA(px, py, c)
			}
		}
	}
}

// drawText renders text onto an image at the specified baseline position
func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// parseHexColor parses a hex color string like "#FF6B6B" to color.RGBA
func parseHexColor(hex string) (color.RGBA, error) {
	s := hex
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}

	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return color.RGBA{r, g, b, 255}, nil
}
