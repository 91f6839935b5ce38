package mosaic

// HorizontalMatch reports whether left's rightmost column equals right's
// leftmost column, row by row. Both grids must have the same height.
func HorizontalMatch(left, right Grid) (bool, error) {
	if left.YMax != right.YMax {
		return false, &DimensionError{Axis: "y", Left: left.YMax + 1, Right: right.YMax + 1}
	}
	for y := 0; y <= left.YMax; y++ {
		if left.Pixel(left.XMax, y) != right.Pixel(0, y) {
			return false, nil
		}
	}
	return true, nil
}

// VerticalMatch reports whether top's bottom row equals bottom's top row,
// column by column. Both grids must have the same width.
func VerticalMatch(top, bottom Grid) (bool, error) {
	if top.XMax != bottom.XMax {
		return false, &DimensionError{Axis: "x", Left: top.XMax + 1, Right: bottom.XMax + 1}
	}
	for x := 0; x <= top.XMax; x++ {
		if top.Pixel(x, 0) != bottom.Pixel(x, bottom.YMax) {
			return false, nil
		}
	}
	return true, nil
}
