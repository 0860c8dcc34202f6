package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// R3ToVec3 converts an r3 vector to its mgl64 counterpart.
func R3ToVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// Vec3ToR3 converts an mgl64 vector to its r3 counterpart.
func Vec3ToR3(v mgl64.Vec3) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// R3VectorFromSlice converts a 3 element slice to a vector. ok is false for any other length.
func R3VectorFromSlice(v []float64) (r3.Vector, bool) {
	if len(v) != 3 {
		return r3.Vector{}, false
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}, true
}

// R3VectorIsFinite returns false if any element is NaN or infinite.
func R3VectorIsFinite(v r3.Vector) bool {
	for _, x := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// ClampNorm rescales v so its norm does not exceed limit.
func ClampNorm(v r3.Vector, limit float64) r3.Vector {
	norm := v.Norm()
	if norm > limit && norm > 0 {
		return v.Mul(limit / norm)
	}
	return v
}
