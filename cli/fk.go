package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/logging"
	spatial "github.com/austingheath/configurator/spatialmath"
	"github.com/austingheath/configurator/utils"
)

// outputDecimals is the precision poses and points are printed with.
const outputDecimals = 9

type poseOutput struct {
	Pose  [][]float64 `json:"pose"`
	Point []float64   `json:"point"`
	// Euler is the rotation as extrinsic xyz angles, so it can be fed back to --orientation.
	Euler []float64 `json:"euler"`
}

func newPoseOutput(pose spatial.Pose) poseOutput {
	euler := spatial.ZYXFromRotationMatrix(pose.Rotation())
	pose = pose.Round(outputDecimals)
	pt := pose.Point()
	return poseOutput{
		Pose:  pose.Rows(),
		Point: []float64{pt.X, pt.Y, pt.Z},
		Euler: utils.RoundAll(euler[:], outputDecimals),
	}
}

// ForwardKinematicsAction prints the end effector pose of the --dh chain at the joint angles given by
// --angles.
func ForwardKinematicsAction(c *cli.Context, logger logging.Logger) (interface{}, error) {
	if err := requireFlags(c, chainFlagDH, fkFlagAngles); err != nil {
		return nil, err
	}
	chain, err := chainFromFlag(c)
	if err != nil {
		return nil, err
	}
	var angles []float64
	if err := decodeFlag(c, fkFlagAngles, kinematics.InvalidTarget, &angles); err != nil {
		return nil, err
	}
	pose, err := chain.ForwardKinematics(angles)
	if err != nil {
		return nil, err
	}
	logger.Debugw("computed pose", "chain", chain.String(), "angles", angles)
	return newPoseOutput(pose), nil
}

// TransformAction prints the transform of the single link given by --link at its joint angle.
func TransformAction(c *cli.Context, logger logging.Logger) (interface{}, error) {
	if err := requireFlags(c, transformFlagLink); err != nil {
		return nil, err
	}
	var link []float64
	if err := decodeFlag(c, transformFlagLink, kinematics.InvalidChain, &link); err != nil {
		return nil, err
	}
	pose, err := kinematics.TransformFromSlice(link)
	if err != nil {
		return nil, err
	}
	logger.Debugw("computed link transform", "link", link)
	return newPoseOutput(pose), nil
}
