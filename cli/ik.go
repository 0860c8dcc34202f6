package cli

import (
	"math/rand"

	"github.com/urfave/cli/v2"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/kinematics/ik"
	"github.com/austingheath/configurator/logging"
	spatial "github.com/austingheath/configurator/spatialmath"
	"github.com/austingheath/configurator/utils"
)

type ikOutput struct {
	Angles     []float64 `json:"angles"`
	Iterations int       `json:"iterations"`
	Restarts   int       `json:"restarts"`
	poseOutput
}

// targetFromFlags builds an IK target from --position and --orientation; either may be left out.
func targetFromFlags(c *cli.Context) (ik.Target, error) {
	var position []float64
	if c.IsSet(ikFlagPosition) {
		if err := decodeFlag(c, ikFlagPosition, kinematics.InvalidTarget, &position); err != nil {
			return ik.Target{}, err
		}
	}
	var orientation [][]float64
	if c.IsSet(ikFlagOrientation) {
		var angles []float64
		if err := decodeFlag(c, ikFlagOrientation, kinematics.InvalidTarget, &angles); err != nil {
			return ik.Target{}, err
		}
		if len(angles) != 3 {
			return ik.Target{}, kinematics.NewInvalidTargetError("--%s must have 3 values, got %d", ikFlagOrientation, len(angles))
		}
		rot, err := spatial.EulerSequence(c.String(ikFlagSequence)).RotationMatrix([3]float64{angles[0], angles[1], angles[2]})
		if err != nil {
			return ik.Target{}, kinematics.WrapError(kinematics.InvalidTarget, err, "bad --%s", ikFlagOrientation)
		}
		for i := 0; i < 3; i++ {
			row := rot.Row(i)
			orientation = append(orientation, []float64{row[0], row[1], row[2]})
		}
	}
	return ik.TargetFromSlices(position, orientation)
}

// InverseKinematicsAction solves for joint angles putting the --dh chain's end effector at the target.
func InverseKinematicsAction(c *cli.Context, logger logging.Logger) (interface{}, error) {
	if err := requireFlags(c, chainFlagDH); err != nil {
		return nil, err
	}
	chain, err := chainFromFlag(c)
	if err != nil {
		return nil, err
	}
	target, err := targetFromFlags(c)
	if err != nil {
		return nil, err
	}

	opts := ik.DefaultOptions()
	opts.Method = ik.Method(c.String(ikFlagMethod))
	opts.RestartBudget = c.Int(ikFlagRestarts)
	solver, err := ik.NewSolver(chain, opts, logger.Sublogger("ik"))
	if err != nil {
		return nil, err
	}
	res, err := solver.Solve(c.Context, target, rand.New(rand.NewSource(c.Int64(solveFlagSeed))))
	if err != nil {
		return nil, err
	}
	pose, err := chain.ForwardKinematics(res.Angles)
	if err != nil {
		return nil, err
	}
	return ikOutput{
		Angles:     utils.RoundAll(res.Angles, outputDecimals),
		Iterations: res.Iterations,
		Restarts:   res.Restarts,
		poseOutput: newPoseOutput(pose),
	}, nil
}
