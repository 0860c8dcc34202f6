package kinematics

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	spatial "github.com/austingheath/configurator/spatialmath"
)

func TestJacobianMatchesFiniteDifference(t *testing.T) {
	c := puma(t)
	angles := []float64{0.3, -0.4, 0.5, 0.2, -0.7, 1.1}
	jac, err := c.GeometricJacobian(angles, nil)
	test.That(t, err, test.ShouldBeNil)
	rows, cols := jac.Dims()
	test.That(t, rows, test.ShouldEqual, 6)
	test.That(t, cols, test.ShouldEqual, 6)

	base, err := c.ForwardKinematics(angles)
	test.That(t, err, test.ShouldBeNil)
	const h = 1e-7
	for i := range angles {
		bumped := append([]float64(nil), angles...)
		bumped[i] += h
		pose, err := c.ForwardKinematics(bumped)
		test.That(t, err, test.ShouldBeNil)

		dp := pose.Point().Sub(base.Point()).Mul(1 / h)
		test.That(t, jac.At(0, i), test.ShouldAlmostEqual, dp.X, 1e-4)
		test.That(t, jac.At(1, i), test.ShouldAlmostEqual, dp.Y, 1e-4)
		test.That(t, jac.At(2, i), test.ShouldAlmostEqual, dp.Z, 1e-4)

		dr := spatial.RotationVectorBetween(pose.Rotation(), base.Rotation()).Mul(1 / h)
		test.That(t, jac.At(3, i), test.ShouldAlmostEqual, dr.X, 1e-4)
		test.That(t, jac.At(4, i), test.ShouldAlmostEqual, dr.Y, 1e-4)
		test.That(t, jac.At(5, i), test.ShouldAlmostEqual, dr.Z, 1e-4)
	}
}

func TestJacobianBlocks(t *testing.T) {
	c := puma(t)
	angles := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	jac, err := c.GeometricJacobian(angles, nil)
	test.That(t, err, test.ShouldBeNil)

	lin, err := c.LinearJacobian(angles)
	test.That(t, err, test.ShouldBeNil)
	ang, err := c.AngularJacobian(angles)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, mat.Equal(lin, jac.Slice(0, 3, 0, 6)), test.ShouldBeTrue)
	test.That(t, mat.Equal(ang, jac.Slice(3, 6, 0, 6)), test.ShouldBeTrue)

	// angular columns are unit joint axes
	for i := 0; i < 6; i++ {
		col := mat.Col(nil, i, ang)
		test.That(t, math.Sqrt(col[0]*col[0]+col[1]*col[1]+col[2]*col[2]), test.ShouldAlmostEqual, 1., 1e-12)
	}
}

func TestJacobianMismatch(t *testing.T) {
	_, err := puma(t).GeometricJacobian([]float64{0}, nil)
	test.That(t, IsKind(err, JointCountMismatch), test.ShouldBeTrue)
}
