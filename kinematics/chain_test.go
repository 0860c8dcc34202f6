package kinematics

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestNewChain(t *testing.T) {
	_, err := NewChain(nil)
	test.That(t, IsKind(err, InvalidChain), test.ShouldBeTrue)

	params := make([]DHParameter, MaxJoints+1)
	_, err = NewChain(params)
	test.That(t, IsKind(err, InvalidChain), test.ShouldBeTrue)

	_, err = NewChain([]DHParameter{{Alpha: math.NaN()}})
	test.That(t, IsKind(err, InvalidChain), test.ShouldBeTrue)

	_, err = NewChain([]DHParameter{{A: -1}})
	test.That(t, IsKind(err, InvalidChain), test.ShouldBeTrue)

	c, err := NewChain([]DHParameter{{A: 1}, {D: 2}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.NumJoints(), test.ShouldEqual, 2)
	test.That(t, c.Param(1), test.ShouldResemble, DHParameter{D: 2})
}

func TestChainFromSlices(t *testing.T) {
	c, err := ChainFromSlices([][]float64{{0, 1, 2}, {math.Pi / 2, 0, 3}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Slices(), test.ShouldResemble, [][]float64{{0, 1, 2}, {math.Pi / 2, 0, 3}})

	_, err = ChainFromSlices([][]float64{{0, 1}, {0, 1, 2, 3}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsKind(err, InvalidChain), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint 0")
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint 1")
}

func TestChainIsImmutable(t *testing.T) {
	params := []DHParameter{{A: 1}}
	c, err := NewChain(params)
	test.That(t, err, test.ShouldBeNil)
	params[0].A = 5
	test.That(t, c.Param(0).A, test.ShouldEqual, 1.)
	got := c.Params()
	got[0].A = 7
	test.That(t, c.Param(0).A, test.ShouldEqual, 1.)
}

func TestHomogeneousChain(t *testing.T) {
	c, err := NewHomogeneousChain(DHParameter{Alpha: math.Pi / 2, A: 100}, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.NumJoints(), test.ShouldEqual, 3)
	test.That(t, c.String(), test.ShouldEqual, "[(1.5707963267948966,100,0),(1.5707963267948966,100,0),(1.5707963267948966,100,0)]")
	for i := 0; i < 3; i++ {
		test.That(t, c.Param(i), test.ShouldResemble, DHParameter{Alpha: math.Pi / 2, A: 100})
	}
	_, err = NewHomogeneousChain(DHParameter{}, 0)
	test.That(t, IsKind(err, InvalidChain), test.ShouldBeTrue)
}

func TestTransformFromSlice(t *testing.T) {
	p, err := TransformFromSlice([]float64{0, 1, 2, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.At(0, 3), test.ShouldEqual, 1.)
	test.That(t, p.At(2, 3), test.ShouldEqual, 2.)

	_, err = TransformFromSlice([]float64{0, 1, 2})
	test.That(t, IsKind(err, InvalidChain), test.ShouldBeTrue)
	_, err = TransformFromSlice([]float64{0, 1, 2, math.Inf(1)})
	test.That(t, IsKind(err, InvalidChain), test.ShouldBeTrue)
}

func TestErrorKinds(t *testing.T) {
	err := NewJointCountMismatchError(2, 3)
	test.That(t, KindOf(err), test.ShouldEqual, JointCountMismatch)
	test.That(t, err.Error(), test.ShouldContainSubstring, "2 joint angles")

	wrapped := WrapError(BudgetExceeded, err, "solving")
	test.That(t, KindOf(wrapped), test.ShouldEqual, BudgetExceeded)
	test.That(t, wrapped.Error(), test.ShouldContainSubstring, "solving")
	test.That(t, wrapped.Error(), test.ShouldContainSubstring, "JointCountMismatch")

	test.That(t, IsKind(nil, InvalidChain), test.ShouldBeFalse)
	test.That(t, KindOf(NewUnsupportedMethodError("newton")), test.ShouldEqual, UnsupportedMethod)
}
