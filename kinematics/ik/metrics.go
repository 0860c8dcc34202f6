package ik

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	spatial "github.com/austingheath/configurator/spatialmath"
	"github.com/austingheath/configurator/utils"
)

// errorDecimals is the precision the solver compares errors at when judging progress.
const errorDecimals = 5

// orientationMetric measures the rotation still needed to carry actual onto target.
type orientationMetric func(target, actual mgl64.Mat3) r3.Vector

func orientationMetricFor(method Method) orientationMetric {
	if method == JacobianPseudoinverse {
		return spatial.RotationVectorBetween
	}
	return spatial.ColumnCrossError
}

// poseError is the remaining error of a pose, split into the position and orientation axes. An axis the
// target does not constrain is always zero.
type poseError struct {
	position    r3.Vector
	orientation r3.Vector
}

func measure(target Target, actual spatial.Pose, metric orientationMetric) poseError {
	var pe poseError
	if target.Position != nil {
		pe.position = target.Position.Sub(actual.Point())
	}
	if target.Orientation != nil {
		pe.orientation = metric(*target.Orientation, actual.Rotation())
	}
	return pe
}

// norms returns the rounded magnitude of each axis.
func (pe poseError) norms() (float64, float64) {
	return utils.RoundTo(pe.position.Norm(), errorDecimals), utils.RoundTo(pe.orientation.Norm(), errorDecimals)
}
