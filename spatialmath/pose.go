// Package spatialmath defines spatial mathematical operations.
// Poses are 4x4 homogeneous transforms built on mgl64 and expose their translation as r3 vectors.
package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/austingheath/configurator/utils"
)

// Pose is a rigid transform from a base frame to another frame, stored as a 4x4 homogeneous matrix.
// The zero value is not a valid pose; use NewZeroPose.
type Pose struct {
	mat mgl64.Mat4
}

// NewZeroPose returns a pose with no rotation and no translation.
func NewZeroPose() Pose {
	return Pose{mgl64.Ident4()}
}

// NewPose assembles a pose from a rotation matrix and a translation.
func NewPose(rot mgl64.Mat3, pt r3.Vector) Pose {
	m := rot.Mat4()
	m.SetCol(3, mgl64.Vec4{pt.X, pt.Y, pt.Z, 1})
	return Pose{m}
}

// NewPoseFromPoint returns a pose with the given translation and no rotation.
func NewPoseFromPoint(pt r3.Vector) Pose {
	return NewPose(mgl64.Ident3(), pt)
}

// NewPoseFromMatrix wraps an existing homogeneous matrix. The affine row is forced to [0, 0, 0, 1].
func NewPoseFromMatrix(m mgl64.Mat4) Pose {
	m.SetRow(3, mgl64.Vec4{0, 0, 0, 1})
	return Pose{m}
}

// Matrix returns the underlying homogeneous matrix.
func (p Pose) Matrix() mgl64.Mat4 {
	return p.mat
}

// At returns the element at the given row and column.
func (p Pose) At(row, col int) float64 {
	return p.mat.At(row, col)
}

// Point returns the translation of the pose.
func (p Pose) Point() r3.Vector {
	return r3.Vector{X: p.mat.At(0, 3), Y: p.mat.At(1, 3), Z: p.mat.At(2, 3)}
}

// Rotation returns the top left 3x3 rotation block.
func (p Pose) Rotation() mgl64.Mat3 {
	return p.mat.Mat3()
}

// ZAxis returns the z axis of the pose's frame expressed in the base frame.
func (p Pose) ZAxis() r3.Vector {
	return Vec3ToR3(p.mat.Col(2).Vec3())
}

// Compose returns p * other, i.e. other expressed in p's base frame.
func Compose(p, other Pose) Pose {
	return NewPoseFromMatrix(p.mat.Mul4(other.mat))
}

// Rows returns the pose as a row-major slice of slices, suitable for serialization.
func (p Pose) Rows() [][]float64 {
	rows := make([][]float64, 4)
	for r := 0; r < 4; r++ {
		row := p.mat.Row(r)
		rows[r] = []float64{row[0], row[1], row[2], row[3]}
	}
	return rows
}

// Round returns a copy of the pose with every element rounded to the given number of decimals.
func (p Pose) Round(decimals int) Pose {
	m := p.mat
	utils.RoundAll(m[:], decimals)
	return Pose{m}
}

// String prints the pose row by row.
func (p Pose) String() string {
	return fmt.Sprintf("%v", p.Rows())
}

// PoseAlmostEqual returns whether every element of the two poses differs by at most epsilon.
func PoseAlmostEqual(a, b Pose, epsilon float64) bool {
	return a.mat.ApproxEqualThreshold(b.mat, epsilon)
}
