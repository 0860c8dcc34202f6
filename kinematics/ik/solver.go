// Package ik solves the inverse kinematics of a serial chain with iterative Jacobian methods.
package ik

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/logging"
	spatial "github.com/austingheath/configurator/spatialmath"
)

// singularCutoff drops singular values smaller than this fraction of the largest one.
const singularCutoff = 1e-10

// Result is a converged solve.
type Result struct {
	Angles     []float64
	Iterations int
	Restarts   int
}

// Solver finds joint angles for a single chain.
type Solver struct {
	chain  *kinematics.Chain
	opts   Options
	metric orientationMetric
	logger logging.Logger
}

// NewSolver validates the options and returns a solver for the chain.
func NewSolver(chain *kinematics.Chain, opts Options, logger logging.Logger) (*Solver, error) {
	if chain == nil {
		return nil, kinematics.NewInvalidChainError("no chain given")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Global().Sublogger("ik")
	}
	opts = opts.withDefaults()
	return &Solver{
		chain:  chain,
		opts:   opts,
		metric: orientationMetricFor(opts.Method),
		logger: logger,
	}, nil
}

// Solve is a convenience for NewSolver followed by Solver.Solve without logging.
func Solve(ctx context.Context, chain *kinematics.Chain, target Target, opts Options, rng *rand.Rand) (*Result, error) {
	solver, err := NewSolver(chain, opts, nil)
	if err != nil {
		return nil, err
	}
	return solver.Solve(ctx, target, rng)
}

// Options returns the options in effect, with defaults filled in.
func (s *Solver) Options() Options {
	return s.opts
}

// Solve iterates from all-zero joint angles until the end effector is within tolerance of the target.
// When progress stalls for StagnationThreshold iterations the solver restarts from normally distributed
// angles drawn from rng, at most RestartBudget times, before failing with ConvergenceFailure. A nil rng
// uses a fixed seed. Cancellation of ctx and reaching MaxIterations fail with BudgetExceeded.
func (s *Solver) Solve(ctx context.Context, target Target, rng *rand.Rand) (*Result, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	angles := make([]float64, s.chain.NumJoints())
	stalled := newStagnation(s.opts.StagnationThreshold)
	var restarts int

	for iter := 0; ; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, kinematics.WrapError(kinematics.BudgetExceeded, err, "ik stopped after %d iterations", iter)
		}

		pose, err := s.chain.ForwardKinematics(angles)
		if err != nil {
			return nil, err
		}
		pe := measure(target, pose, s.metric)
		posErr, oriErr := pe.norms()

		posDone := posErr <= s.opts.PositionTolerance
		oriDone := oriErr <= s.opts.OrientationTolerance
		if posDone && oriDone {
			return &Result{Angles: angles, Iterations: iter, Restarts: restarts}, nil
		}
		if iter >= s.opts.MaxIterations {
			return nil, kinematics.NewError(kinematics.BudgetExceeded, "ik did not converge within %d iterations", s.opts.MaxIterations)
		}

		if stalled.observe(posErr, oriErr, posDone, oriDone) {
			if restarts >= s.opts.RestartBudget {
				return nil, kinematics.NewError(kinematics.ConvergenceFailure,
					"unable to meet the tolerance after %d restarts (position error %v, orientation error %v)",
					restarts, posErr, oriErr)
			}
			restarts++
			for i := range angles {
				angles[i] = rng.NormFloat64() * math.Pi
			}
			s.logger.Debugw("restarting ik", "restart", restarts, "iteration", iter,
				"position_error", posErr, "orientation_error", oriErr)
			stalled.reset()
			continue
		}

		delta, err := s.step(target, angles, pe)
		if err != nil {
			return nil, err
		}
		scale := s.opts.MaxStep / math.Max(s.opts.MaxStep, maxAbs(delta))
		for i := range angles {
			angles[i] += scale * delta[i]
		}
	}
}

// stagnation counts iterations in which an axis still out of tolerance failed to strictly improve on the
// previous iteration. The count only goes back to zero on reset.
type stagnation struct {
	threshold        int
	count            int
	prevPos, prevOri float64
}

func newStagnation(threshold int) *stagnation {
	st := &stagnation{threshold: threshold}
	st.reset()
	return st
}

func (st *stagnation) reset() {
	st.count = 0
	st.prevPos, st.prevOri = math.Inf(1), math.Inf(1)
}

// observe records the rounded errors of one iteration and reports whether the threshold has been reached.
func (st *stagnation) observe(posErr, oriErr float64, posDone, oriDone bool) bool {
	if (!posDone && posErr >= st.prevPos) || (!oriDone && oriErr >= st.prevOri) {
		st.count++
	}
	st.prevPos, st.prevOri = posErr, oriErr
	return st.count >= st.threshold
}

// step maps the clamped error through the chosen Jacobian inverse. A target constraining only position or
// only orientation uses the matching half of the Jacobian.
func (s *Solver) step(target Target, angles []float64, pe poseError) ([]float64, error) {
	var (
		jac    *mat.Dense
		err    error
		errVec []float64
	)
	p := spatial.ClampNorm(pe.position, s.opts.PositionClamp)
	o := spatial.ClampNorm(pe.orientation, s.opts.OrientationClamp)
	switch {
	case target.Orientation == nil:
		jac, err = s.chain.LinearJacobian(angles)
		errVec = []float64{p.X, p.Y, p.Z}
	case target.Position == nil:
		jac, err = s.chain.AngularJacobian(angles)
		errVec = []float64{o.X, o.Y, o.Z}
	default:
		jac, err = s.chain.GeometricJacobian(angles, nil)
		errVec = []float64{p.X, p.Y, p.Z, o.X, o.Y, o.Z}
	}
	if err != nil {
		return nil, err
	}
	e := mat.NewVecDense(len(errVec), errVec)

	switch s.opts.Method {
	case JacobianPseudoinverse:
		return pseudoinverseStep(jac, e), nil
	case JacobianTranspose:
		return transposeStep(jac, e), nil
	default:
		return nil, kinematics.NewUnsupportedMethodError(string(s.opts.Method))
	}
}

// transposeStep returns α·Jᵀe where α minimizes ‖e − α·JJᵀe‖.
func transposeStep(jac *mat.Dense, e *mat.VecDense) []float64 {
	_, n := jac.Dims()
	var delta mat.VecDense
	delta.MulVec(jac.T(), e)

	var moved mat.VecDense
	moved.MulVec(jac, &delta)
	if denom := mat.Dot(&moved, &moved); denom > 0 {
		delta.ScaleVec(mat.Dot(e, &moved)/denom, &delta)
	}
	out := make([]float64, n)
	copy(out, delta.RawVector().Data)
	return out
}

// pseudoinverseStep returns J⁺e computed from the thin SVD of J.
func pseudoinverseStep(jac *mat.Dense, e *mat.VecDense) []float64 {
	_, n := jac.Dims()
	out := make([]float64, n)

	var svd mat.SVD
	if !svd.Factorize(jac, mat.SVDThin) {
		return out
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[0] == 0 {
		return out
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	delta := mat.NewVecDense(n, out)
	cutoff := singularCutoff * values[0]
	for i, sigma := range values {
		if sigma <= cutoff {
			continue
		}
		coef := mat.Dot(u.ColView(i), e) / sigma
		delta.AddScaledVec(delta, coef, v.ColView(i))
	}
	return out
}

func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		m = math.Max(m, math.Abs(x))
	}
	return m
}
