// Package configurator searches for the smallest serial chain of revolute joints that can reach a
// workspace of target points and orientations.
package configurator

import (
	"github.com/google/uuid"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/workspace"
)

// chainNamespace scopes chain identifiers so they never collide with other name based UUIDs.
var chainNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/austingheath/configurator/chain"))

// ChainNode is a candidate chain together with its reach estimate. The ID is derived from the chain's
// parameters, so identical chains always have identical IDs.
type ChainNode struct {
	ID     uuid.UUID
	Chain  *kinematics.Chain
	Bounds workspace.ReachBounds

	// Solutions holds the verified joint angles for each target, once the node has been accepted.
	Solutions [][]float64
}

// NewChainNode wraps a chain and computes its reach bounds.
func NewChainNode(chain *kinematics.Chain) *ChainNode {
	return &ChainNode{
		ID:     uuid.NewSHA1(chainNamespace, []byte(chain.String())),
		Chain:  chain,
		Bounds: workspace.Bounds(chain),
	}
}
