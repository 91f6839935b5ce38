package mosaic

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Feature kinds written to the "kind" property.
const (
	FeatureTile   = "tile"
	FeatureMotif  = "motif"
	FeatureCorner = "corner"
)

// tileBound returns the planar footprint of the tile at c. One unit is one
// tile pixel; tiles touch without gaps.
func tileBound(space *Space, c Coord, size float64) orb.Bound {
	x := float64(c.X-space.XMin) * size
	y := float64(c.Y-space.YMin) * size
	return orb.Bound{Min: orb.Point{x, y}, Max: orb.Point{x + size, y + size}}
}

// LayoutToFeatureCollection exports the assembled layout as GeoJSON in plain
// planar coordinates: a polygon per tile carrying its ID, grid position,
// orientation and area, a point per corner tile, and one MultiPoint holding
// the centre of every motif pixel in layout coordinates.
func LayoutToFeatureCollection(res *Result) (*geojson.FeatureCollection, error) {
	space := res.Space()
	if space == nil || space.Len() == 0 {
		return nil, fmt.Errorf("result has no layout to export")
	}

	seed, _ := space.At(Coord{X: space.XMin, Y: space.YMin})
	size := float64(seed.Width())

	fc := geojson.NewFeatureCollection()
	for _, p := range space.Placements() {
		poly := tileBound(space, p.Coord, size).ToPolygon()
		f := geojson.NewFeature(poly)
		f.Properties["kind"] = FeatureTile
		f.Properties["id"] = p.ID
		f.Properties["col"] = p.Coord.X - space.XMin
		f.Properties["row"] = p.Coord.Y - space.YMin
		f.Properties["orientation"] = p.Orientation.String()
		f.Properties["area"] = planar.Area(poly)
		fc.Append(f)
	}

	corners, err := space.Corners()
	if err != nil {
		return nil, err
	}
	cornerCoords := [4]Coord{
		{space.XMax, space.YMax},
		{space.XMax, space.YMin},
		{space.XMin, space.YMax},
		{space.XMin, space.YMin},
	}
	for i, t := range corners {
		f := geojson.NewFeature(tileBound(space, cornerCoords[i], size).Center())
		f.Properties["kind"] = FeatureCorner
		f.Properties["id"] = t.ID
		fc.Append(f)
	}

	if res.HasImage() {
		var pts orb.MultiPoint
		for _, c := range res.Search().UnorientedMatches() {
			tile, local, ok := LayoutPixel(space, c)
			if !ok {
				continue
			}
			b := tileBound(space, tile, size)
			pts = append(pts, orb.Point{b.Min[0] + float64(local.X) + 0.5, b.Min[1] + float64(local.Y) + 0.5})
		}
		f := geojson.NewFeature(pts)
		if len(pts) > 0 {
			centroid, _ := planar.CentroidArea(pts)
			f.Properties["centroid"] = []float64{centroid[0], centroid[1]}
		}
		f.Properties["kind"] = FeatureMotif
		f.Properties["motif"] = res.Motif
		f.Properties["occurrences"] = res.Occurrences
		f.Properties["roughness"] = res.Roughness
		fc.Append(f)
	}

	return fc, nil
}

// LayoutGeoJSON is LayoutToFeatureCollection encoded as JSON.
func LayoutGeoJSON(res *Result) ([]byte, error) {
	fc, err := LayoutToFeatureCollection(res)
	if err != nil {
		return nil, err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshaling layout GeoJSON: %w", err)
	}
	return data, nil
}
