package configurator

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/samber/lo"

	"github.com/austingheath/configurator/kinematics"
	spatial "github.com/austingheath/configurator/spatialmath"
	"github.com/austingheath/configurator/utils"
	"github.com/austingheath/configurator/workspace"
)

// axisDecimals is how finely orientation axes are compared when counting distinct ones.
const axisDecimals = 6

// startJoints picks the joint count the search starts from. Fewer joints than this are known to be
// unable to reach every target, or not worth trying.
func startJoints(cfg Config, targets Targets) int {
	var start int
	switch {
	case len(targets.Orientations) == 0 && len(targets.Poses) == 0:
		start = pointStart(cfg, targets.Points)
	case len(targets.Points) == 0 && len(targets.Poses) == 0:
		start = orientationStart(targets.Orientations)
	default:
		// mixed targets only get the coarse bound
		start = coarseStart(cfg, targets.positions())
	}
	if start < cfg.MinJoints {
		start = cfg.MinJoints
	}
	if start > cfg.MaxJoints {
		start = cfg.MaxJoints
	}
	return start
}

// coarseStart bounds the joint count by how many links of the longest allowed length it takes to span
// the farthest point. Three joints are always assumed necessary for arbitrary points.
func coarseStart(cfg Config, points []r3.Vector) int {
	var maxNorm float64
	for _, p := range points {
		maxNorm = math.Max(maxNorm, p.Norm())
	}
	start := 3
	for s := kinematics.MaxJoints; s >= 3; s-- {
		if maxNorm > float64(s)*cfg.MaxLinkLength {
			start = s + 1
			break
		}
		start = s
	}
	return start
}

// pointStart lowers the coarse bound for point sets a one or two joint chain can sweep: points sharing a
// plane through the base that one of the allowed alphas produces need two joints, and such points that are
// also equidistant from the base need one.
func pointStart(cfg Config, points []r3.Vector) int {
	start := coarseStart(cfg, points)
	if start != 3 || !workspace.PointsSharePlane(points) {
		return start
	}

	zAxes, xAxes := alphaPlaneAxes(cfg.Alphas)
	for _, z := range zAxes {
		for _, x := range xAxes {
			extended := append(append([]r3.Vector(nil), points...), z, x, r3.Vector{})
			if workspace.PointsSharePlane(extended) {
				if workspace.PointsEqualDistant(points) {
					return 1
				}
				return 2
			}
		}
	}
	return start
}

// alphaPlaneAxes returns the rounded z and x axes of the base frame rotated by each distinct |alpha|.
func alphaPlaneAxes(alphas []float64) ([]r3.Vector, []r3.Vector) {
	var zAxes, xAxes []r3.Vector
	magnitudes := lo.Uniq(lo.Map(alphas, func(alpha float64, _ int) float64 { return math.Abs(alpha) }))
	for _, alpha := range magnitudes {
		rot := mgl64.Rotate3DX(alpha)
		zAxes = append(zAxes, roundAxis(spatial.Vec3ToR3(rot.Mul3x1(mgl64.Vec3{0, 0, 1})), 0))
		xAxes = append(xAxes, roundAxis(spatial.Vec3ToR3(rot.Mul3x1(mgl64.Vec3{1, 0, 0})), 0))
	}
	return zAxes, xAxes
}

func roundAxis(v r3.Vector, decimals int) r3.Vector {
	return r3.Vector{X: utils.RoundTo(v.X, decimals), Y: utils.RoundTo(v.Y, decimals), Z: utils.RoundTo(v.Z, decimals)}
}

// orientationStart counts the distinct z axes the orientations need. A single revolute joint keeps its z
// axis fixed, so one axis needs one joint, two axes need two, and anything else starts from three.
func orientationStart(orientations []mgl64.Mat3) int {
	axes := lo.Uniq(lo.Map(orientations, func(o mgl64.Mat3, _ int) r3.Vector {
		return roundAxis(spatial.Vec3ToR3(o.Col(2)), axisDecimals)
	}))
	switch len(axes) {
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 3
	}
}
