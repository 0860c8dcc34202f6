package configurator

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	spatial "github.com/austingheath/configurator/spatialmath"
)

func TestStartJointsPoints(t *testing.T) {
	cfg := DefaultConfig()
	for name, tc := range map[string]struct {
		points   []r3.Vector
		expected int
	}{
		"single point":             {[]r3.Vector{{Y: 200}}, 1},
		"circle in the base plane": {[]r3.Vector{{X: 100}, {Y: 100}, {X: -100}}, 1},
		"base plane":               {[]r3.Vector{{X: 100}, {Y: 200}}, 2},
		"general":                  {[]r3.Vector{{X: 100}, {Y: 100}, {Z: 100}, {X: 100, Y: 100, Z: 100}}, 3},
		"far":                      {[]r3.Vector{{Z: 3500}}, 4},
	} {
		t.Run(name, func(t *testing.T) {
			test.That(t, startJoints(cfg, Targets{Points: tc.points}), test.ShouldEqual, tc.expected)
		})
	}
}

func TestStartJointsClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxJoints = 2
	test.That(t, startJoints(cfg, Targets{Points: []r3.Vector{{Z: 3500}}}), test.ShouldEqual, 2)

	cfg = DefaultConfig()
	cfg.MinJoints = 2
	test.That(t, startJoints(cfg, Targets{Points: []r3.Vector{{Y: 200}}}), test.ShouldEqual, 2)
}

func TestStartJointsOrientations(t *testing.T) {
	cfg := DefaultConfig()
	aboutZ := []mgl64.Mat3{mgl64.Rotate3DZ(0.5), mgl64.Rotate3DZ(1.5)}
	test.That(t, startJoints(cfg, Targets{Orientations: aboutZ}), test.ShouldEqual, 1)

	twoAxes := append(aboutZ, mgl64.Rotate3DX(math.Pi/2))
	test.That(t, startJoints(cfg, Targets{Orientations: twoAxes}), test.ShouldEqual, 2)

	threeAxes := append(twoAxes, mgl64.Rotate3DY(math.Pi/2))
	test.That(t, startJoints(cfg, Targets{Orientations: threeAxes}), test.ShouldEqual, 3)
}

func TestStartJointsMixed(t *testing.T) {
	cfg := DefaultConfig()
	targets := Targets{
		Points:       []r3.Vector{{Y: 200}},
		Orientations: []mgl64.Mat3{mgl64.Ident3()},
	}
	test.That(t, startJoints(cfg, targets), test.ShouldEqual, 3)

	targets = Targets{Poses: []spatial.Pose{spatial.NewPoseFromPoint(r3.Vector{Z: 5000})}}
	test.That(t, startJoints(cfg, targets), test.ShouldEqual, 5)
}

func TestAlphaPlaneAxes(t *testing.T) {
	zAxes, xAxes := alphaPlaneAxes([]float64{math.Pi / 2, -math.Pi / 2, 0})
	test.That(t, zAxes, test.ShouldResemble, []r3.Vector{{Y: -1}, {Z: 1}})
	test.That(t, xAxes, test.ShouldResemble, []r3.Vector{{X: 1}, {X: 1}})
}
