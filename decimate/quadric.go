package decimate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// quadric is the symmetric 4x4 error matrix of Garland-Heckbert, stored as
// its ten distinct coefficients. Evaluating it at a point yields the sum of
// squared distances to the planes accumulated into it.
type quadric struct {
	xx, xy, xz, xw float64
	yy, yz, yw     float64
	zz, zw         float64
	ww             float64
}

// addPlane accumulates the plane with unit normal n and offset d
// (so n.p + d == 0 for points p on the plane).
func (q *quadric) addPlane(n r3.Vec, d float64) {
	q.xx += n.X * n.X
	q.xy += n.X * n.Y
	q.xz += n.X * n.Z
	q.xw += n.X * d
	q.yy += n.Y * n.Y
	q.yz += n.Y * n.Z
	q.yw += n.Y * d
	q.zz += n.Z * n.Z
	q.zw += n.Z * d
	q.ww += d * d
}

// add accumulates another quadric.
func (q *quadric) add(o *quadric) {
	q.xx += o.xx
	q.xy += o.xy
	q.xz += o.xz
	q.xw += o.xw
	q.yy += o.yy
	q.yz += o.yz
	q.yw += o.yw
	q.zz += o.zz
	q.zw += o.zw
	q.ww += o.ww
}

// eval returns the quadric error at point p. The result is clamped at zero:
// tiny negative values can appear through floating point cancellation.
func (q *quadric) eval(p r3.Vec) float64 {
	e := q.xx*p.X*p.X + 2*q.xy*p.X*p.Y + 2*q.xz*p.X*p.Z + 2*q.xw*p.X +
		q.yy*p.Y*p.Y + 2*q.yz*p.Y*p.Z + 2*q.yw*p.Y +
		q.zz*p.Z*p.Z + 2*q.zw*p.Z +
		q.ww
	if e < 0 {
		return 0
	}
	return e
}

// optimal solves for the point minimizing the quadric, i.e. the solution of
// A v = -b with A the upper-left 3x3 block and b = (xw, yw, zw). It reports
// false when the system is singular or near-singular, in which case the
// caller should fall back to the edge midpoint.
func (q *quadric) optimal() (r3.Vec, bool) {
	det := q.xx*(q.yy*q.zz-q.yz*q.yz) -
		q.xy*(q.xy*q.zz-q.yz*q.xz) +
		q.xz*(q.xy*q.yz-q.yy*q.xz)
	if math.Abs(det) < 1e-12 {
		return r3.Vec{}, false
	}
	inv := 1 / det

	// Cramer's rule, one replaced column per coordinate.
	x := (-q.xw*(q.yy*q.zz-q.yz*q.yz) +
		q.xy*(q.yw*q.zz-q.yz*q.zw) -
		q.xz*(q.yw*q.yz-q.yy*q.zw)) * inv
	y := (-q.xx*(q.yw*q.zz-q.yz*q.zw) +
		q.xw*(q.xy*q.zz-q.yz*q.xz) -
		q.xz*(q.xy*q.zw-q.yw*q.xz)) * inv
	z := (-q.xx*(q.yy*q.zw-q.yw*q.yz) +
		q.xy*(q.xy*q.zw-q.yw*q.xz) -
		q.xw*(q.xy*q.yz-q.yy*q.xz)) * inv

	if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) ||
		math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsInf(z, 0) {
		return r3.Vec{}, false
	}
	return r3.Vec{X: x, Y: y, Z: z}, true
}
