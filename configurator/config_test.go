package configurator

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/kinematics/ik"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	test.That(t, DefaultConfig().Validate(), test.ShouldBeNil)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinJoints = 0
	cfg.MaxJoints = 9
	cfg.LinkStep = 0
	cfg.Alphas = nil
	cfg.Timeout = -time.Second
	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, kinematics.IsKind(err, kinematics.InvalidOptions), test.ShouldBeTrue)
	for _, msg := range []string{"min_joints", "max_joints", "link_step", "alpha", "timeout"} {
		test.That(t, err.Error(), test.ShouldContainSubstring, msg)
	}

	cfg = DefaultConfig()
	cfg.MinJoints = 4
	cfg.MaxJoints = 3
	test.That(t, cfg.Validate().Error(), test.ShouldContainSubstring, "exceeds max_joints")

	cfg = DefaultConfig()
	cfg.Method = "newton"
	err = cfg.Validate()
	test.That(t, kinematics.IsKind(err, kinematics.UnsupportedMethod), test.ShouldBeTrue)

	cfg = DefaultConfig()
	cfg.PositionTolerance = -1
	test.That(t, cfg.Validate().Error(), test.ShouldContainSubstring, "position tolerance")
}

func TestReadConfig(t *testing.T) {
	t.Setenv("CONFIGURATOR_STEP", "50")
	path := writeConfig(t, `{
		"max_joints": 3,
		"link_step": ${CONFIGURATOR_STEP},
		"alphas": [0],
		"method": "jacobian_transpose",
		"timeout": "30s"
	}`)

	cfg, err := ReadConfig(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.MaxJoints, test.ShouldEqual, 3)
	test.That(t, cfg.LinkStep, test.ShouldEqual, 50.)
	test.That(t, cfg.Alphas, test.ShouldResemble, []float64{0})
	test.That(t, cfg.Method, test.ShouldEqual, ik.JacobianTranspose)
	test.That(t, cfg.Timeout, test.ShouldEqual, 30*time.Second)

	// untouched fields keep their defaults
	def := DefaultConfig()
	test.That(t, cfg.MinJoints, test.ShouldEqual, def.MinJoints)
	test.That(t, cfg.MaxLinkLength, test.ShouldEqual, def.MaxLinkLength)
	test.That(t, cfg.Seed, test.ShouldEqual, def.Seed)
}

func TestReadConfigErrors(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot read config")

	_, err = ReadConfig(writeConfig(t, `{"max_joints": `))
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot parse config")

	_, err = ReadConfig(writeConfig(t, `{"max_joint": 3}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "max_joint")

	_, err = ReadConfig(writeConfig(t, `{"timeout": "soon"}`))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ReadConfig(writeConfig(t, `{"min_joints": 5, "max_joints": 2}`))
	test.That(t, kinematics.IsKind(err, kinematics.InvalidOptions), test.ShouldBeTrue)
}
