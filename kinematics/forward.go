package kinematics

import (
	"math"

	spatial "github.com/austingheath/configurator/spatialmath"
)

func (c *Chain) checkAngles(angles []float64) error {
	if len(angles) == 0 || len(angles) > len(c.params) {
		return NewJointCountMismatchError(len(angles), len(c.params))
	}
	for i, a := range angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return NewInvalidTargetError("joint angle %d is not finite", i)
		}
	}
	return nil
}

// Frames returns the pose of every joint frame in the base frame. Frames()[i] is the frame after joint i
// has been applied. angles may be a prefix of the chain, in which case only that many frames are returned;
// for a full set of angles the last element is the end effector.
func (c *Chain) Frames(angles []float64) ([]spatial.Pose, error) {
	if err := c.checkAngles(angles); err != nil {
		return nil, err
	}
	frames := make([]spatial.Pose, len(angles))
	current := c.params[0].Transform(angles[0])
	frames[0] = current
	for i := 1; i < len(angles); i++ {
		current = spatial.Compose(current, c.params[i].Transform(angles[i]))
		frames[i] = current
	}
	return frames, nil
}

// ForwardKinematics returns the pose of the frame reached after applying len(angles) joints. With one angle
// per joint this is the end effector pose.
func (c *Chain) ForwardKinematics(angles []float64) (spatial.Pose, error) {
	frames, err := c.Frames(angles)
	if err != nil {
		return spatial.Pose{}, err
	}
	return frames[len(frames)-1], nil
}
