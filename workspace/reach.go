// Package workspace estimates how far a chain can reach and tests simple geometric properties of target
// point sets.
package workspace

import (
	"math"

	"github.com/austingheath/configurator/kinematics"
)

// ReachBounds is an estimate of the distances from the base a chain's end effector can be placed at.
// Min never exceeds Max.
type ReachBounds struct {
	Min float64 `json:"minReach"`
	Max float64 `json:"maxReach"`
}

// Contains returns whether a point at the given distance from the base may be reachable. epsilon widens the
// bounds on both sides.
func (b ReachBounds) Contains(dist, epsilon float64) bool {
	return dist >= b.Min-epsilon && dist <= b.Max+epsilon
}

// MaxReach returns an upper bound on the end effector's distance from the base: every link contributes at
// most the length of its (a, d) offset.
func MaxReach(chain *kinematics.Chain) float64 {
	var sum float64
	for _, p := range chain.Params() {
		sum += math.Hypot(p.A, p.D)
	}
	return sum
}

// MinReach returns an estimate of the end effector's smallest distance from the base. Each link is
// reduced to the shorter of its offsets, and the interval of distances the links can combine to is folded
// from the base outward; the result is the low end of that interval.
func MinReach(chain *kinematics.Chain) float64 {
	params := chain.Params()
	first := math.Min(params[0].A, params[0].D)
	lo, hi := first, first
	for _, p := range params[1:] {
		x := math.Min(p.A, p.D)
		if lo <= x && x <= hi {
			lo = 0
		} else {
			lo = math.Min(math.Abs(lo-x), math.Abs(hi-x))
		}
		hi += x
	}
	return lo
}

// Bounds returns both reach estimates for the chain.
func Bounds(chain *kinematics.Chain) ReachBounds {
	return ReachBounds{Min: MinReach(chain), Max: MaxReach(chain)}
}
