package configurator

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.uber.org/multierr"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/kinematics/ik"
	spatial "github.com/austingheath/configurator/spatialmath"
)

// PointOrientation is a point that must be reached with a specific orientation, given as euler angles.
type PointOrientation struct {
	Point       []float64 `json:"point"`
	Orientation []float64 `json:"orientation"`
}

// WorkspaceSpec describes what a configured robot must be able to do. Orientations are euler angles in
// radians interpreted in EulerOrder; lowercase orders are extrinsic and uppercase orders intrinsic.
type WorkspaceSpec struct {
	Points                [][]float64        `json:"points"`
	Orientations          [][]float64        `json:"orientations"`
	PointsWithOrientation []PointOrientation `json:"pointsWithOrientation"`
	EulerOrder            string             `json:"orientationSequence"`
}

// Targets is a validated, de-duplicated WorkspaceSpec.
type Targets struct {
	Points       []r3.Vector
	Orientations []mgl64.Mat3
	Poses        []spatial.Pose
}

// Empty returns whether there is nothing to reach.
func (t Targets) Empty() bool {
	return len(t.Points) == 0 && len(t.Orientations) == 0 && len(t.Poses) == 0
}

// Len returns the number of targets.
func (t Targets) Len() int {
	return len(t.Points) + len(t.Orientations) + len(t.Poses)
}

// positions returns every point a chain must reach, with or without an orientation.
func (t Targets) positions() []r3.Vector {
	out := make([]r3.Vector, 0, len(t.Points)+len(t.Poses))
	out = append(out, t.Points...)
	for _, p := range t.Poses {
		out = append(out, p.Point())
	}
	return out
}

// ikTargets returns one IK target per entry, points first, then orientations, then poses.
func (t Targets) ikTargets() []ik.Target {
	out := make([]ik.Target, 0, t.Len())
	for _, p := range t.Points {
		out = append(out, ik.NewPositionTarget(p))
	}
	for _, o := range t.Orientations {
		out = append(out, ik.NewOrientationTarget(o))
	}
	for _, p := range t.Poses {
		out = append(out, ik.NewPoseTarget(p))
	}
	return out
}

func vec3(field string, v []float64) (r3.Vector, error) {
	pt, ok := spatial.R3VectorFromSlice(v)
	if !ok {
		return r3.Vector{}, kinematics.NewInvalidTargetError("%s must have 3 values, got %d", field, len(v))
	}
	if !spatial.R3VectorIsFinite(pt) {
		return r3.Vector{}, kinematics.NewInvalidTargetError("%s must be finite", field)
	}
	return pt, nil
}

// Targets validates the spec and converts it into targets. Every malformed entry is reported, as
// InvalidTarget errors combined into one.
func (spec WorkspaceSpec) Targets() (Targets, error) {
	var targets Targets
	if len(spec.Points) == 0 && len(spec.Orientations) == 0 && len(spec.PointsWithOrientation) == 0 {
		return targets, kinematics.NewInvalidTargetError("at least one point or orientation must be provided")
	}

	order := spatial.EulerSequence(spec.EulerOrder)
	if order == "" {
		order = spatial.DefaultEulerSequence
	}
	if err := order.Validate(); err != nil {
		return targets, kinematics.WrapError(kinematics.InvalidTarget, err, "bad orientation sequence")
	}
	toRotation := func(field string, v []float64) (mgl64.Mat3, error) {
		angles, err := vec3(field, v)
		if err != nil {
			return mgl64.Mat3{}, err
		}
		return order.RotationMatrix([3]float64{angles.X, angles.Y, angles.Z})
	}

	var errs error
	seenPoints := map[r3.Vector]struct{}{}
	for i, raw := range spec.Points {
		pt, err := vec3(fmt.Sprintf("points[%d]", i), raw)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, ok := seenPoints[pt]; ok {
			continue
		}
		seenPoints[pt] = struct{}{}
		targets.Points = append(targets.Points, pt)
	}

	seenAngles := map[r3.Vector]struct{}{}
	for i, raw := range spec.Orientations {
		field := fmt.Sprintf("orientations[%d]", i)
		rot, err := toRotation(field, raw)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		key, _ := spatial.R3VectorFromSlice(raw)
		if _, ok := seenAngles[key]; ok {
			continue
		}
		seenAngles[key] = struct{}{}
		targets.Orientations = append(targets.Orientations, rot)
	}

	posed := map[r3.Vector]r3.Vector{}
	for i, po := range spec.PointsWithOrientation {
		pt, err := vec3(fmt.Sprintf("pointsWithOrientation[%d].point", i), po.Point)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		field := fmt.Sprintf("pointsWithOrientation[%d].orientation", i)
		rot, err := toRotation(field, po.Orientation)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		angles, _ := spatial.R3VectorFromSlice(po.Orientation)
		if prev, ok := posed[pt]; ok {
			if prev != angles {
				errs = multierr.Append(errs, kinematics.NewInvalidTargetError(
					"point %v is given two different orientations", po.Point))
			}
			continue
		}
		posed[pt] = angles
		targets.Poses = append(targets.Poses, spatial.NewPose(rot, pt))
	}

	if errs != nil {
		return Targets{}, errs
	}
	return targets, nil
}
