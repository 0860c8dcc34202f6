package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/austingheath/configurator/logging"
	"github.com/austingheath/configurator/workspace"
)

// ReachAction prints the reach estimate of the chain given by --dh.
func ReachAction(c *cli.Context, logger logging.Logger) (interface{}, error) {
	if err := requireFlags(c, chainFlagDH); err != nil {
		return nil, err
	}
	chain, err := chainFromFlag(c)
	if err != nil {
		return nil, err
	}
	bounds := workspace.Bounds(chain)
	logger.Debugw("estimated reach", "chain", chain.String(), "min", bounds.Min, "max", bounds.Max)
	return bounds, nil
}
