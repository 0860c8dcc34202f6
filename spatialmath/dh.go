package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DHTransform returns the link-to-link transform for one joint under the (modified) Denavit-Hartenberg
// convention: a rotation alpha about the common normal, an offset a along it, a joint rotation theta and
// an offset d along the joint axis.
func DHTransform(alpha, a, d, theta float64) Pose {
	sinT, cosT := math.Sincos(theta)
	sinA, cosA := math.Sincos(alpha)

	return Pose{mgl64.Mat4FromRows(
		mgl64.Vec4{cosT, -sinT, 0, a},
		mgl64.Vec4{sinT * cosA, cosT * cosA, -sinA, -sinA * d},
		mgl64.Vec4{sinT * sinA, cosT * sinA, cosA, cosA * d},
		mgl64.Vec4{0, 0, 0, 1},
	)}
}
