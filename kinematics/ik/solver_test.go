package ik

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/logging"
	spatial "github.com/austingheath/configurator/spatialmath"
)

func puma(t *testing.T) *kinematics.Chain {
	t.Helper()
	c, err := kinematics.ChainFromSlices([][]float64{
		{0, 0, 0},
		{-math.Pi / 2, 0, 0},
		{0, 1, 1},
		{-math.Pi / 2, 1, 5},
		{math.Pi / 2, 0, 0},
		{-math.Pi / 2, 0, 0},
	})
	test.That(t, err, test.ShouldBeNil)
	return c
}

func checkSolution(t *testing.T, c *kinematics.Chain, target Target, opts Options, res *Result) {
	t.Helper()
	pose, err := c.ForwardKinematics(res.Angles)
	test.That(t, err, test.ShouldBeNil)
	pe := measure(target, pose, orientationMetricFor(opts.Method))
	posErr, oriErr := pe.norms()
	test.That(t, posErr, test.ShouldBeLessThanOrEqualTo, opts.PositionTolerance)
	test.That(t, oriErr, test.ShouldBeLessThanOrEqualTo, opts.OrientationTolerance)
}

func TestSolvePumaPosition(t *testing.T) {
	c := puma(t)
	opts := DefaultOptions()
	opts.RestartBudget = 100
	target := NewPositionTarget(r3.Vector{X: -1, Y: -1, Z: 4})

	res, err := Solve(context.Background(), c, target, opts, rand.New(rand.NewSource(1)))
	test.That(t, err, test.ShouldBeNil)
	checkSolution(t, c, target, opts, res)

	pose, err := c.ForwardKinematics(res.Angles)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatial.R3VectorAlmostEqual(pose.Point(), *target.Position, 0.05), test.ShouldBeTrue)
}

func TestSolveReachable(t *testing.T) {
	c := puma(t)
	goal, err := c.ForwardKinematics([]float64{0.3, -0.4, 0.5, 0.2, -0.7, 1.1})
	test.That(t, err, test.ShouldBeNil)
	point := goal.Point()
	rot := goal.Rotation()

	for _, method := range []Method{JacobianTranspose, JacobianPseudoinverse} {
		for name, target := range map[string]Target{
			"position":    {Position: &point},
			"orientation": {Orientation: &rot},
			"pose":        NewPoseTarget(goal),
		} {
			t.Run(string(method)+"/"+name, func(t *testing.T) {
				opts := DefaultOptions()
				opts.Method = method
				opts.RestartBudget = 20
				res, err := Solve(context.Background(), c, target, opts, rand.New(rand.NewSource(3)))
				test.That(t, err, test.ShouldBeNil)
				test.That(t, len(res.Angles), test.ShouldEqual, 6)
				checkSolution(t, c, target, opts, res)
			})
		}
	}
}

func TestSolveAlreadyThere(t *testing.T) {
	c, err := kinematics.NewChain([]kinematics.DHParameter{{Alpha: -math.Pi / 2, D: 200}})
	test.That(t, err, test.ShouldBeNil)
	res, err := Solve(context.Background(), c, NewPositionTarget(r3.Vector{Y: 200}), DefaultOptions(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Iterations, test.ShouldEqual, 0)
	test.That(t, res.Restarts, test.ShouldEqual, 0)
	test.That(t, res.Angles, test.ShouldResemble, []float64{0})
}

func TestSolveValidation(t *testing.T) {
	c := puma(t)
	ctx := context.Background()
	target := NewPositionTarget(r3.Vector{X: 1})

	opts := DefaultOptions()
	opts.Method = "newton"
	_, err := Solve(ctx, c, target, opts, nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.UnsupportedMethod)

	opts = DefaultOptions()
	opts.PositionTolerance = 0
	_, err = Solve(ctx, c, target, opts, nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.InvalidOptions)

	opts = DefaultOptions()
	opts.RestartBudget = -1
	opts.OrientationTolerance = -0.1
	err = opts.Validate()
	test.That(t, kinematics.IsKind(err, kinematics.InvalidOptions), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "restart budget")
	test.That(t, err.Error(), test.ShouldContainSubstring, "orientation tolerance")

	_, err = Solve(ctx, c, Target{}, DefaultOptions(), nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.InvalidTarget)

	notRotation := mgl64.Ident3().Mul(3)
	_, err = Solve(ctx, c, NewOrientationTarget(notRotation), DefaultOptions(), nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.InvalidTarget)

	_, err = Solve(ctx, c, NewPositionTarget(r3.Vector{X: math.NaN()}), DefaultOptions(), nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.InvalidTarget)

	_, err = Solve(ctx, nil, target, DefaultOptions(), nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.InvalidChain)
}

func TestSolveUnreachable(t *testing.T) {
	c := puma(t)
	opts := DefaultOptions()
	opts.RestartBudget = 1
	res, err := Solve(context.Background(), c, NewPositionTarget(r3.Vector{X: 100}), opts, rand.New(rand.NewSource(1)))
	test.That(t, res, test.ShouldBeNil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.ConvergenceFailure)
}

func TestSolveRestartsAreLogged(t *testing.T) {
	// a single joint chain whose end effector cannot move away from (0, -200, 0)
	c, err := kinematics.NewChain([]kinematics.DHParameter{{Alpha: math.Pi / 2, D: 200}})
	test.That(t, err, test.ShouldBeNil)

	logger, logs := logging.NewObservedTestLogger(t)
	opts := DefaultOptions()
	opts.PositionTolerance = 10
	opts.RestartBudget = 2
	solver, err := NewSolver(c, opts, logger)
	test.That(t, err, test.ShouldBeNil)

	_, err = solver.Solve(context.Background(), NewPositionTarget(r3.Vector{Y: 200}), rand.New(rand.NewSource(1)))
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.ConvergenceFailure)
	test.That(t, err.Error(), test.ShouldContainSubstring, "2 restarts")
	restarts := logs.FilterMessage("restarting ik").All()
	test.That(t, len(restarts), test.ShouldEqual, 2)
	// the error never changes: the first iteration after a start has nothing to compare against, every
	// later one counts
	test.That(t, restarts[0].ContextMap()["iteration"], test.ShouldEqual, int64(100))
	test.That(t, restarts[1].ContextMap()["iteration"], test.ShouldEqual, int64(201))
}

func TestStagnationCountsEveryStall(t *testing.T) {
	st := newStagnation(3)
	// a new best every other iteration does not clear the count
	for _, e := range []float64{5, 4, 4, 3, 3, 2} {
		test.That(t, st.observe(e, 0, false, true), test.ShouldBeFalse)
	}
	test.That(t, st.observe(2, 0, false, true), test.ShouldBeTrue)
	test.That(t, st.count, test.ShouldEqual, 3)

	st.reset()
	test.That(t, st.observe(2, 0, false, true), test.ShouldBeFalse)
	test.That(t, st.count, test.ShouldEqual, 0)

	// a finished axis is ignored, an unfinished one still counts
	st = newStagnation(1)
	test.That(t, st.observe(1, 1, true, false), test.ShouldBeFalse)
	test.That(t, st.observe(2, 0.5, true, false), test.ShouldBeFalse)
	test.That(t, st.observe(2, 0.5, true, false), test.ShouldBeTrue)
}

func TestSolveDeterministic(t *testing.T) {
	c := puma(t)
	opts := DefaultOptions()
	opts.RestartBudget = 100
	target := NewPositionTarget(r3.Vector{X: -1, Y: -1, Z: 4})

	first, err := Solve(context.Background(), c, target, opts, rand.New(rand.NewSource(42)))
	test.That(t, err, test.ShouldBeNil)
	second, err := Solve(context.Background(), c, target, opts, rand.New(rand.NewSource(42)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second, test.ShouldResemble, first)
}

func TestSolveBudget(t *testing.T) {
	c := puma(t)
	target := NewPositionTarget(r3.Vector{X: 100})

	opts := DefaultOptions()
	opts.MaxIterations = 5
	_, err := Solve(context.Background(), c, target, opts, nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.BudgetExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Solve(ctx, c, target, DefaultOptions(), nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.BudgetExceeded)
	test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
}

func TestTargetFromSlices(t *testing.T) {
	tgt, err := TargetFromSlices([]float64{1, 2, 3}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, *tgt.Position, test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, tgt.Orientation, test.ShouldBeNil)

	tgt, err = TargetFromSlices(nil, [][]float64{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tgt.Orientation.ApproxEqual(mgl64.Rotate3DZ(math.Pi/2)), test.ShouldBeTrue)

	_, err = TargetFromSlices([]float64{1, 2}, nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.InvalidTarget)
	_, err = TargetFromSlices(nil, [][]float64{{1, 0, 0}, {0, 1}, {0, 0, 1}})
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.InvalidTarget)
	_, err = TargetFromSlices(nil, nil)
	test.That(t, kinematics.KindOf(err), test.ShouldEqual, kinematics.InvalidTarget)
}

func TestTransposeStepIsOptimalOnLine(t *testing.T) {
	// with a square identity jacobian the optimal step recovers the error exactly
	jac := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	e := mat.NewVecDense(3, []float64{0.5, -1, 2})
	test.That(t, transposeStep(jac, e), test.ShouldResemble, []float64{0.5, -1, 2})

	delta := pseudoinverseStep(jac, e)
	for i, v := range []float64{0.5, -1, 2} {
		test.That(t, delta[i], test.ShouldAlmostEqual, v, 1e-12)
	}
}
