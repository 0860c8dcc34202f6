// Package kinematics models serial kinematic chains described by Denavit-Hartenberg parameters and
// computes their forward kinematics and geometric Jacobians.
package kinematics

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/multierr"

	spatial "github.com/austingheath/configurator/spatialmath"
)

// MaxJoints is the largest number of revolute joints a chain may have.
const MaxJoints = 7

// DHParameter holds the fixed link geometry of one revolute joint under the modified DH convention.
// Angles are in radians; lengths are in whatever unit the caller uses consistently (millimeters by default).
type DHParameter struct {
	Alpha float64 `json:"alpha"`
	A     float64 `json:"a"`
	D     float64 `json:"d"`
}

// DHParameterFromSlice reads an (alpha, a, d) triple.
func DHParameterFromSlice(v []float64) (DHParameter, error) {
	if len(v) != 3 {
		return DHParameter{}, NewInvalidChainError("dh parameter needs 3 values (alpha, a, d), got %d", len(v))
	}
	p := DHParameter{Alpha: v[0], A: v[1], D: v[2]}
	return p, p.Validate()
}

// Validate checks that every value is finite and that the link offsets are not negative.
func (p DHParameter) Validate() error {
	for _, v := range []float64{p.Alpha, p.A, p.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewInvalidChainError("dh parameter %v contains a non-finite value", p.Slice())
		}
	}
	if p.A < 0 || p.D < 0 {
		return NewInvalidChainError("dh parameter %v has a negative offset", p.Slice())
	}
	return nil
}

// Transform returns the link transform of this joint when rotated by theta.
func (p DHParameter) Transform(theta float64) spatial.Pose {
	return spatial.DHTransform(p.Alpha, p.A, p.D, theta)
}

// Slice returns the parameter as an (alpha, a, d) slice.
func (p DHParameter) Slice() []float64 {
	return []float64{p.Alpha, p.A, p.D}
}

// TransformFromSlice computes a single link transform from an (alpha, a, d, theta) quadruple.
func TransformFromSlice(v []float64) (spatial.Pose, error) {
	if len(v) != 4 {
		return spatial.Pose{}, NewInvalidChainError("dh transform needs 4 values (alpha, a, d, theta), got %d", len(v))
	}
	p := DHParameter{Alpha: v[0], A: v[1], D: v[2]}
	if err := p.Validate(); err != nil {
		return spatial.Pose{}, err
	}
	if math.IsNaN(v[3]) || math.IsInf(v[3], 0) {
		return spatial.Pose{}, NewInvalidChainError("joint angle %v is not finite", v[3])
	}
	return p.Transform(v[3]), nil
}

// Chain is an ordered, immutable list of joints from the base outward.
type Chain struct {
	params []DHParameter
}

// NewChain validates the parameters and builds a chain of between 1 and MaxJoints joints.
func NewChain(params []DHParameter) (*Chain, error) {
	if len(params) == 0 {
		return nil, NewInvalidChainError("a chain needs at least one joint")
	}
	if len(params) > MaxJoints {
		return nil, NewInvalidChainError("a chain may have at most %d joints, got %d", MaxJoints, len(params))
	}
	var errs error
	for _, p := range params {
		errs = multierr.Append(errs, p.Validate())
	}
	if errs != nil {
		return nil, errs
	}
	return &Chain{params: append([]DHParameter(nil), params...)}, nil
}

// ChainFromSlices builds a chain from (alpha, a, d) rows.
func ChainFromSlices(rows [][]float64) (*Chain, error) {
	params := make([]DHParameter, 0, len(rows))
	var errs error
	for i, row := range rows {
		p, err := DHParameterFromSlice(row)
		if err != nil {
			errs = multierr.Append(errs, WrapError(InvalidChain, err, "joint %d", i))
			continue
		}
		params = append(params, p)
	}
	if errs != nil {
		return nil, errs
	}
	return NewChain(params)
}

// NewHomogeneousChain builds a chain of n identical joints.
func NewHomogeneousChain(p DHParameter, n int) (*Chain, error) {
	params := make([]DHParameter, n)
	for i := range params {
		params[i] = p
	}
	return NewChain(params)
}

// NumJoints returns the number of joints in the chain.
func (c *Chain) NumJoints() int {
	return len(c.params)
}

// Param returns the parameters of the i-th joint.
func (c *Chain) Param(i int) DHParameter {
	return c.params[i]
}

// Params returns a copy of the chain's parameters.
func (c *Chain) Params() []DHParameter {
	return append([]DHParameter(nil), c.params...)
}

// Slices returns the chain as (alpha, a, d) rows.
func (c *Chain) Slices() [][]float64 {
	return lo.Map(c.params, func(p DHParameter, _ int) []float64 {
		return p.Slice()
	})
}

// String returns a stable textual form of the chain.
func (c *Chain) String() string {
	parts := lo.Map(c.params, func(p DHParameter, _ int) string {
		return fmt.Sprintf("(%g,%g,%g)", p.Alpha, p.A, p.D)
	})
	return "[" + strings.Join(parts, ",") + "]"
}
