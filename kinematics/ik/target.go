package ik

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/austingheath/configurator/kinematics"
	spatial "github.com/austingheath/configurator/spatialmath"
)

// Target is what the end effector should reach. At least one of Position and Orientation must be set; a
// nil field is left unconstrained.
type Target struct {
	Position    *r3.Vector
	Orientation *mgl64.Mat3
}

// NewPositionTarget constrains only the end effector position.
func NewPositionTarget(pt r3.Vector) Target {
	return Target{Position: &pt}
}

// NewOrientationTarget constrains only the end effector orientation.
func NewOrientationTarget(rot mgl64.Mat3) Target {
	return Target{Orientation: &rot}
}

// NewPoseTarget constrains both the position and the orientation of the end effector.
func NewPoseTarget(p spatial.Pose) Target {
	pt := p.Point()
	rot := p.Rotation()
	return Target{Position: &pt, Orientation: &rot}
}

// TargetFromSlices builds a target from an optional 3 element position and an optional row-major 3x3
// rotation matrix. Nil slices leave that part unconstrained.
func TargetFromSlices(position []float64, orientation [][]float64) (Target, error) {
	var tgt Target
	if position != nil {
		pt, ok := spatial.R3VectorFromSlice(position)
		if !ok {
			return Target{}, kinematics.NewInvalidTargetError("position must be a vector (x, y, z), got %d values", len(position))
		}
		tgt.Position = &pt
	}
	if orientation != nil {
		if len(orientation) != 3 {
			return Target{}, kinematics.NewInvalidTargetError("orientation must be a 3x3 rotation matrix")
		}
		rows := make([]mgl64.Vec3, 3)
		for i, row := range orientation {
			if len(row) != 3 {
				return Target{}, kinematics.NewInvalidTargetError("orientation must be a 3x3 rotation matrix")
			}
			rows[i] = mgl64.Vec3{row[0], row[1], row[2]}
		}
		rot := mgl64.Mat3FromRows(rows[0], rows[1], rows[2])
		tgt.Orientation = &rot
	}
	return tgt, tgt.Validate()
}

// Validate checks that the target constrains something and that what it constrains is well formed.
func (t Target) Validate() error {
	if t.Position == nil && t.Orientation == nil {
		return kinematics.NewInvalidTargetError("either a position or an orientation must be specified")
	}
	if t.Position != nil && !spatial.R3VectorIsFinite(*t.Position) {
		return kinematics.NewInvalidTargetError("position %v is not finite", *t.Position)
	}
	if t.Orientation != nil && !spatial.IsRotationMatrix(*t.Orientation) {
		return kinematics.NewInvalidTargetError("orientation is not a rotation matrix")
	}
	return nil
}
