package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// orthonormalEpsilon bounds how far RᵀR may stray from the identity for R to count as a rotation.
const orthonormalEpsilon = 1e-6

// IsRotationMatrix returns whether m is orthonormal with a determinant of +1.
func IsRotationMatrix(m mgl64.Mat3) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if !m.Transpose().Mul3(m).ApproxEqualThreshold(mgl64.Ident3(), orthonormalEpsilon) {
		return false
	}
	return math.Abs(m.Det()-1) < orthonormalEpsilon
}

// RotationVector returns the axis-angle (rotation vector) form of a rotation matrix: the unit axis scaled
// by the rotation angle in radians, with the angle kept in [0, pi].
// The quaternion route mirrors Eigen's AngleAxis conversion.
func RotationVector(m mgl64.Mat3) r3.Vector {
	q := mgl64.Mat4ToQuat(m.Mat4()).Normalize()
	sinHalf := q.V.Len()
	if sinHalf < 1e-12 {
		return r3.Vector{}
	}
	angle := 2 * math.Atan2(sinHalf, math.Abs(q.W))
	axis := q.V.Mul(1 / sinHalf)
	if q.W < 0 {
		axis = axis.Mul(-1)
	}
	return Vec3ToR3(axis.Mul(angle))
}

// RotationVectorBetween returns the rotation vector of target·actualᵀ, the rotation which carries the actual
// orientation onto the target orientation, expressed in the base frame.
func RotationVectorBetween(target, actual mgl64.Mat3) r3.Vector {
	return RotationVector(target.Mul3(actual.Transpose()))
}

// ColumnCrossError returns ½·Σ aₖ×tₖ over the columns of the actual and target rotation matrices.
// For small misalignments this approximates the rotation vector from actual to target.
func ColumnCrossError(target, actual mgl64.Mat3) r3.Vector {
	var sum mgl64.Vec3
	for k := 0; k < 3; k++ {
		sum = sum.Add(actual.Col(k).Cross(target.Col(k)))
	}
	return Vec3ToR3(sum.Mul(0.5))
}
