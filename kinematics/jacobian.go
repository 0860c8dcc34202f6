package kinematics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// GeometricJacobian returns the 6xN Jacobian of the chain at the given angles. The top three rows map joint
// velocities to the linear velocity of the point p, the bottom three to the angular velocity of the end
// effector. If p is nil the end effector origin is used.
//
// Column i uses the axis z and origin o of the frame produced by joint i: [z × (p − o); z].
func (c *Chain) GeometricJacobian(angles []float64, p *r3.Vector) (*mat.Dense, error) {
	if len(angles) != len(c.params) {
		return nil, NewJointCountMismatchError(len(angles), len(c.params))
	}
	frames, err := c.Frames(angles)
	if err != nil {
		return nil, err
	}
	effector := frames[len(frames)-1].Point()
	if p != nil {
		effector = *p
	}

	jac := mat.NewDense(6, len(frames), nil)
	for i, f := range frames {
		z := f.ZAxis()
		lin := z.Cross(effector.Sub(f.Point()))
		jac.Set(0, i, lin.X)
		jac.Set(1, i, lin.Y)
		jac.Set(2, i, lin.Z)
		jac.Set(3, i, z.X)
		jac.Set(4, i, z.Y)
		jac.Set(5, i, z.Z)
	}
	return jac, nil
}

// LinearJacobian returns the 3xN position rows of the geometric Jacobian.
func (c *Chain) LinearJacobian(angles []float64) (*mat.Dense, error) {
	jac, err := c.GeometricJacobian(angles, nil)
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(jac.Slice(0, 3, 0, len(angles))), nil
}

// AngularJacobian returns the 3xN orientation rows of the geometric Jacobian.
func (c *Chain) AngularJacobian(angles []float64) (*mat.Dense, error) {
	jac, err := c.GeometricJacobian(angles, nil)
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(jac.Slice(3, 6, 0, len(angles))), nil
}
