package spatialmath

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// DefaultEulerSequence is used when no rotation order is given.
const DefaultEulerSequence = "xyz"

// EulerSequence is a three letter rotation order. Lowercase letters ("xyz") name extrinsic rotations about
// the fixed base axes; uppercase letters ("XYZ") name intrinsic rotations about the rotating axes.
type EulerSequence string

// Validate checks that the sequence has three axes from x, y and z, a single case, and no axis repeated
// back to back.
func (seq EulerSequence) Validate() error {
	s := string(seq)
	if len(s) != 3 {
		return errors.Errorf("euler sequence %q must name exactly three axes", s)
	}
	if s != strings.ToLower(s) && s != strings.ToUpper(s) {
		return errors.Errorf("euler sequence %q mixes intrinsic and extrinsic axes", s)
	}
	lower := strings.ToLower(s)
	for i := 0; i < 3; i++ {
		if !strings.ContainsRune("xyz", rune(lower[i])) {
			return errors.Errorf("euler sequence %q contains unknown axis %q", s, lower[i])
		}
		if i > 0 && lower[i] == lower[i-1] {
			return errors.Errorf("euler sequence %q repeats axis %q consecutively", s, lower[i])
		}
	}
	return nil
}

// Intrinsic returns whether the rotations are about the rotating axes.
func (seq EulerSequence) Intrinsic() bool {
	return string(seq) == strings.ToUpper(string(seq))
}

// RotationMatrix converts three euler angles (radians) into a rotation matrix.
func (seq EulerSequence) RotationMatrix(angles [3]float64) (mgl64.Mat3, error) {
	if err := seq.Validate(); err != nil {
		return mgl64.Mat3{}, err
	}
	for _, a := range angles {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return mgl64.Mat3{}, errors.New("euler angles must be finite")
		}
	}

	lower := strings.ToLower(string(seq))
	rot := mgl64.Ident3()
	for i := 0; i < 3; i++ {
		elem := axisRotation(lower[i], angles[i])
		if seq.Intrinsic() {
			// each rotation is about the frame produced by the previous ones
			rot = rot.Mul3(elem)
		} else {
			// each rotation is about the fixed base axes
			rot = elem.Mul3(rot)
		}
	}
	return rot, nil
}

func axisRotation(axis byte, angle float64) mgl64.Mat3 {
	switch axis {
	case 'x':
		return mgl64.Rotate3DX(angle)
	case 'y':
		return mgl64.Rotate3DY(angle)
	default:
		return mgl64.Rotate3DZ(angle)
	}
}

// ZYXFromRotationMatrix returns the (x, y, z) roll, pitch and yaw angles of a rotation matrix under the
// extrinsic "xyz" sequence, i.e. R = Rz(z)·Ry(y)·Rx(x).
func ZYXFromRotationMatrix(m mgl64.Mat3) [3]float64 {
	r20 := m.At(2, 0)
	switch {
	case math.Abs(r20+1) < 1e-9:
		return [3]float64{math.Atan2(m.At(0, 1), m.At(0, 2)), math.Pi / 2, 0}
	case math.Abs(r20-1) < 1e-9:
		return [3]float64{math.Atan2(-m.At(0, 1), -m.At(0, 2)), -math.Pi / 2, 0}
	default:
		y := -math.Asin(r20)
		cosY := math.Cos(y)
		x := math.Atan2(m.At(2, 1)/cosY, m.At(2, 2)/cosY)
		z := math.Atan2(m.At(1, 0)/cosY, m.At(0, 0)/cosY)
		return [3]float64{x, y, z}
	}
}
