package ik

import (
	"math"

	"go.uber.org/multierr"

	"github.com/austingheath/configurator/kinematics"
)

// Method names an inverse kinematics update rule.
type Method string

// The supported update rules.
const (
	JacobianTranspose     = Method("jacobian_transpose")
	JacobianPseudoinverse = Method("jacobian_pseudoinverse")
)

const (
	defaultTolerance           = 0.01
	defaultPositionClamp       = 50.
	defaultOrientationClamp    = 0.5
	defaultStagnationThreshold = 100
	defaultMaxIterations       = 50000
)

// defaultMaxStep is the most any single joint may move in one iteration.
var defaultMaxStep = 5 * math.Pi / 180

// Options tunes a solve. Zero values for the clamps, step, stagnation threshold and iteration cap are
// replaced with their defaults; tolerances must be set explicitly.
type Options struct {
	Method Method `json:"method"`

	// PositionTolerance is the largest acceptable distance between the end effector and the target position.
	PositionTolerance float64 `json:"position_tolerance"`
	// OrientationTolerance is the largest acceptable orientation error, in radians.
	OrientationTolerance float64 `json:"orientation_tolerance"`

	// RestartBudget is how many times the solver may restart from random angles after stagnating.
	RestartBudget int `json:"restart_budget"`

	// PositionClamp and OrientationClamp bound the error fed into each update.
	PositionClamp    float64 `json:"position_clamp"`
	OrientationClamp float64 `json:"orientation_clamp"`

	MaxStep             float64 `json:"max_step"`
	StagnationThreshold int     `json:"stagnation_threshold"`
	MaxIterations       int     `json:"max_iterations"`
}

// DefaultOptions returns the options used when a caller has no opinion.
func DefaultOptions() Options {
	return Options{
		Method:               JacobianTranspose,
		PositionTolerance:    defaultTolerance,
		OrientationTolerance: defaultTolerance,
		RestartBudget:        1,
		PositionClamp:        defaultPositionClamp,
		OrientationClamp:     defaultOrientationClamp,
		MaxStep:              defaultMaxStep,
		StagnationThreshold:  defaultStagnationThreshold,
		MaxIterations:        defaultMaxIterations,
	}
}

// Validate reports an unknown method as UnsupportedMethod and every other problem as InvalidOptions.
func (o Options) Validate() error {
	switch o.Method {
	case JacobianTranspose, JacobianPseudoinverse:
	default:
		return kinematics.NewUnsupportedMethodError(string(o.Method))
	}

	var errs error
	if !(o.PositionTolerance > 0) {
		errs = multierr.Append(errs, kinematics.NewError(kinematics.InvalidOptions,
			"position tolerance must be greater than 0, got %v", o.PositionTolerance))
	}
	if !(o.OrientationTolerance > 0) {
		errs = multierr.Append(errs, kinematics.NewError(kinematics.InvalidOptions,
			"orientation tolerance must be greater than 0, got %v", o.OrientationTolerance))
	}
	if o.RestartBudget < 0 {
		errs = multierr.Append(errs, kinematics.NewError(kinematics.InvalidOptions,
			"restart budget must not be negative, got %d", o.RestartBudget))
	}
	for name, v := range map[string]float64{
		"position clamp":    o.PositionClamp,
		"orientation clamp": o.OrientationClamp,
		"max step":          o.MaxStep,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = multierr.Append(errs, kinematics.NewError(kinematics.InvalidOptions, "%s must be a finite, non-negative value", name))
		}
	}
	if o.StagnationThreshold < 0 || o.MaxIterations < 0 {
		errs = multierr.Append(errs, kinematics.NewError(kinematics.InvalidOptions,
			"stagnation threshold and max iterations must not be negative"))
	}
	return errs
}

// withDefaults fills in zero valued tuning knobs.
func (o Options) withDefaults() Options {
	if o.PositionClamp == 0 {
		o.PositionClamp = defaultPositionClamp
	}
	if o.OrientationClamp == 0 {
		o.OrientationClamp = defaultOrientationClamp
	}
	if o.MaxStep == 0 {
		o.MaxStep = defaultMaxStep
	}
	if o.StagnationThreshold == 0 {
		o.StagnationThreshold = defaultStagnationThreshold
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = defaultMaxIterations
	}
	return o
}
