package workspace

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
)

const (
	// relativeTolerance matches how closely two norms must agree to count as equal.
	relativeTolerance = 1e-9
	// planeTolerance bounds the signed distance of a point from a plane for it to lie on the plane.
	planeTolerance = 1e-6
)

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= relativeTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// PointsEqualDistant returns whether every point is the same distance from the origin as the first one.
// Empty and single point sets are trivially equidistant.
func PointsEqualDistant(points []r3.Vector) bool {
	if len(points) == 0 {
		return true
	}
	dist := points[0].Norm()
	for _, p := range points[1:] {
		if !isClose(p.Norm(), dist) {
			return false
		}
	}
	return true
}

// PointsSharePlane returns whether all distinct points lie on one plane. Three or fewer distinct points
// always do, as do collinear sets.
func PointsSharePlane(points []r3.Vector) bool {
	unique := dedup(points)
	if len(unique) <= 3 {
		return true
	}

	normal, origin, ok := firstPlane(unique)
	if !ok {
		// every triple is collinear
		return true
	}
	normal = normal.Normalize()
	ref := normal.Dot(origin)
	for _, p := range unique {
		if math.Abs(normal.Dot(p)-ref) > planeTolerance*math.Max(1, math.Abs(ref)) {
			return false
		}
	}
	return true
}

// firstPlane finds the first non-collinear triple in index order and returns the normal of its plane and
// a point on it.
func firstPlane(points []r3.Vector) (r3.Vector, r3.Vector, bool) {
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			for k := j + 1; k < len(points); k++ {
				normal := points[j].Sub(points[i]).Cross(points[k].Sub(points[i]))
				if normal.Norm2() > 0 {
					return normal, points[i], true
				}
			}
		}
	}
	return r3.Vector{}, r3.Vector{}, false
}

// dedup removes exact duplicates and keeps the first occurrence order.
func dedup(points []r3.Vector) []r3.Vector {
	return lo.Uniq(points)
}
