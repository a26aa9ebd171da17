package geom

import "math"

// Nearest casts r against every triangle and stamps the color of the closest
// hit on the returned ray. Only hits with t > 0 count: the ray starts at the
// camera and extends past its End. A hit replaces the current winner only
// when strictly closer, so the earliest triangle in tris wins ties.
//
// idx is the index of the winning triangle, or -1 when nothing was hit.
func Nearest(r Ray, tris []Triangle, k ToleranceScale) (out Ray, hit Hit, idx int) {
	nearest := math.Inf(1)
	idx = -1
	for i := range tris {
		h, ok := tris[i].Intersect(r, k)
		if !ok || h.T <= 0 {
			continue
		}
		if h.T < nearest {
			nearest = h.T
			hit = h
			idx = i
			r.Color = tris[i].color
		}
	}
	return r, hit, idx
}
