package mosaic

import (
	"fmt"
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// LayoutRenderer draws the assembled layout as vector graphics: every tile
// with its border, separated by a gap, with motif pixels highlighted.
// One canvas unit is one tile pixel.
type LayoutRenderer struct {
	Space      *Space
	Motif      map[Coord]map[Coord]bool // tile coord -> local pixels covered by the motif
	Gap        float64                  // Space between tiles
	Padding    float64
	TileGrid   bool // Outline each tile
	Filled     color.RGBA
	Border     color.RGBA // Filled pixels on a tile's outer ring
	MotifColor color.RGBA
	Resolution canvas.Resolution // Resolution for PNG output
}

// NewLayoutRenderer creates a layout renderer for a solved result
func NewLayoutRenderer(res *Result) *LayoutRenderer {
	r := &LayoutRenderer{
		Space:      res.Space(),
		Motif:      make(map[Coord]map[Coord]bool),
		Gap:        1.0,
		Padding:    2.0,
		TileGrid:   true,
		Filled:     color.RGBA{0, 0, 139, 255},
		Border:     color.RGBA{100, 149, 237, 255},
		MotifColor: color.RGBA{255, 99, 71, 255},
		Resolution: canvas.DPMM(8.0),
	}
	if res.HasImage() {
		for _, c := range res.Search().UnorientedMatches() {
			tile, local, ok := LayoutPixel(r.Space, c)
			if !ok {
				continue
			}
			if r.Motif[tile] == nil {
				r.Motif[tile] = make(map[Coord]bool)
			}
			r.Motif[tile][local] = true
		}
	}
	return r
}

// ApplyConfig copies colors and the tile grid switch from the render config
func (r *LayoutRenderer) ApplyConfig(rc RenderConfig) error {
	r.TileGrid = rc.ShowTileGrid()
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
		r.MotifColor = c
	}
	return nil
}

// canvasRenderer is an interface that both svg and rasterizer renderers implement
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

func (r *LayoutRenderer) size() (float64, float64, error) {
	if r.Space == nil || r.Space.Len() == 0 {
		return 0, 0, fmt.Errorf("no layout to render")
	}
	seed, _ := r.Space.At(Coord{X: r.Space.XMin, Y: r.Space.YMin})
	cell := float64(seed.Width()) + r.Gap
	width := float64(r.Space.Columns())*cell - r.Gap + 2*r.Padding
	height := float64(r.Space.Rows())*cell - r.Gap + 2*r.Padding
	return width, height, nil
}

// RenderToSVG writes the layout as an SVG to the provided writer
func (r *LayoutRenderer) RenderToSVG(w io.Writer) error {
	width, height, err := r.size()
	if err != nil {
		return err
	}

	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, width, height)

	return svgRenderer.Close()
}

// RenderToPNG writes the layout as a PNG to the provided writer
func (r *LayoutRenderer) RenderToPNG(w io.Writer) error {
	width, height, err := r.size()
	if err != nil {
		return err
	}

	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, width, height)

	return png.Encode(w, rast)
}

// renderToCanvas draws the layout (shared logic for SVG and PNG)
func (r *LayoutRenderer) renderToCanvas(renderer canvasRenderer, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	fillStyle := func(c color.RGBA) canvas.Style {
		s := canvas.DefaultStyle
		s.Fill = canvas.Paint{Color: c}
		s.Stroke = canvas.Paint{Color: canvas.Transparent}
		return s
	}

	outlineStyle := canvas.DefaultStyle
	outlineStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	outlineStyle.Stroke = canvas.Paint{Color: canvas.Gray}
	outlineStyle.StrokeWidth = 0.1

	for _, c := range r.Space.Coords() {
		t, _ := r.Space.At(c)
		cell := float64(t.Width()) + r.Gap
		ox := r.Padding + float64(c.X-r.Space.XMin)*cell
		oy := r.Padding + float64(c.Y-r.Space.YMin)*cell

		interior, border, motif := &canvas.Path{}, &canvas.Path{}, &canvas.Path{}
		for _, p := range t.Filled() {
			target := interior
			switch {
			case r.Motif[c][p]:
				target = motif
			case p.X == 0 || p.Y == 0 || p.X == t.XMax || p.Y == t.YMax:
				target = border
			}
			x, y := ox+float64(p.X), oy+float64(p.Y)
			target.MoveTo(x, y)
			target.LineTo(x+1, y)
			target.LineTo(x+1, y+1)
			target.LineTo(x, y+1)
			target.Close()
		}
		for _, layer := range []struct {
			path  *canvas.Path
			color color.RGBA
		}{
			{border, r.Border},
			{interior, r.Filled},
			{motif, r.MotifColor},
		} {
			if !layer.path.Empty() {
				renderer.RenderPath(layer.path, fillStyle(layer.color), canvas.Identity)
			}
		}

		if r.TileGrid {
			outline := canvas.Rectangle(float64(t.Width()), float64(t.Height())).Translate(ox, oy)
			renderer.RenderPath(outline, outlineStyle, canvas.Identity)
		}
	}
}
