package vectorpipe

import "math"

// generalizationDistances computes, per axis, the world-space size of one
// screen pixel under screenToWorld, scaled by perPixel. The probe runs at the
// center of the paint area; if the transform is undefined there (the center
// may sit on a projection singularity), the corners are tried before giving
// up. perPixel below 1.0 generalizes slightly less than a full pixel.
func generalizationDistances(screenToWorld Transform, paint Rect, perPixel float64) (dx, dy float64, err error) {
	probes := [][2]float64{
		{float64(paint.X) + float64(paint.Width)/2, float64(paint.Y) + float64(paint.Height)/2},
		{float64(paint.X), float64(paint.Y)},
		{float64(paint.X + paint.Width), float64(paint.Y)},
		{float64(paint.X), float64(paint.Y + paint.Height)},
		{float64(paint.X + paint.Width), float64(paint.Y + paint.Height)},
	}

	for _, p := range probes {
		x0, y0, err0 := screenToWorld.Apply(p[0], p[1])
		if err0 != nil {
			err = err0
			continue
		}
		x1, y1, err1 := screenToWorld.Apply(p[0]+1, p[1]+1)
		if err1 != nil {
			err = err1
			continue
		}
		dx = math.Abs(x1-x0) * perPixel
		dy = math.Abs(y1-y0) * perPixel
		return dx, dy, nil
	}
	return 0, 0, err
}
