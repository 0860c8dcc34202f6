// Package cli contains the configurator command line tool. Every command prints a single JSON document to
// the app's Writer: its result, or an error body carrying the error's kind.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagConfig = "config"
	generalFlagDebug  = "debug"

	solveFlagSpec    = "spec"
	solveFlagWorkers = "workers"
	solveFlagSeed    = "seed"
	solveFlagTimeout = "timeout"
	solveFlagTable   = "table"

	chainFlagDH = "dh"

	fkFlagAngles = "angles"

	transformFlagLink = "link"

	ikFlagPosition    = "position"
	ikFlagOrientation = "orientation"
	ikFlagSequence    = "sequence"
	ikFlagMethod      = "method"
	ikFlagRestarts    = "restarts"
)

func dhFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  chainFlagDH,
		Usage: "DH parameters of the chain as a JSON array of [alpha, a, d] rows",
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut. Logs go to errOut so out only ever holds JSON.
func NewApp(out, errOut io.Writer) *cli.App {
	app := &cli.App{
		Name:            "configurator",
		Usage:           "find the smallest robot arm that reaches a workspace",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    generalFlagConfig,
				Aliases: []string{"c"},
				Usage:   "load search configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "solve",
				Usage: "search for a chain that reaches every target of a workspace spec",
				UsageText: `configurator solve --spec workspace.json

The spec is a JSON object with "points", "orientations" and "pointsWithOrientation".
Use "-" to read it from stdin.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  solveFlagSpec,
						Usage: "workspace spec `FILE`",
					},
					&cli.IntFlag{
						Name:  solveFlagWorkers,
						Usage: "number of candidates to verify concurrently, overriding the config",
					},
					&cli.Int64Flag{
						Name:  solveFlagSeed,
						Usage: "seed for IK restarts, overriding the config",
					},
					&cli.DurationFlag{
						Name:  solveFlagTimeout,
						Usage: "give up after this long, overriding the config",
					},
					&cli.BoolFlag{
						Name:  solveFlagTable,
						Usage: "print the chain found as a table instead of JSON",
					},
				},
				Action: jsonAction(SolveAction),
			},
			{
				Name:   "reach",
				Usage:  "estimate the minimum and maximum reach of a chain",
				Flags:  []cli.Flag{dhFlag()},
				Action: jsonAction(ReachAction),
			},
			{
				Name:  "fk",
				Usage: "compute the end effector pose of a chain",
				Flags: []cli.Flag{
					dhFlag(),
					&cli.StringFlag{
						Name:  fkFlagAngles,
						Usage: "joint angles in radians as a JSON array",
					},
				},
				Action: jsonAction(ForwardKinematicsAction),
			},
			{
				Name:  "transform",
				Usage: "compute the transform of a single link at a joint angle",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  transformFlagLink,
						Usage: "link as a JSON array [alpha, a, d, theta]",
					},
				},
				Action: jsonAction(TransformAction),
			},
			{
				Name:  "ik",
				Usage: "solve for joint angles that place the end effector at a target",
				Flags: []cli.Flag{
					dhFlag(),
					&cli.StringFlag{
						Name:  ikFlagPosition,
						Usage: "target point as a JSON array [x, y, z]",
					},
					&cli.StringFlag{
						Name:  ikFlagOrientation,
						Usage: "target orientation as a JSON array of euler angles",
					},
					&cli.StringFlag{
						Name:  ikFlagSequence,
						Value: "xyz",
						Usage: "euler angle sequence; lowercase is extrinsic, uppercase intrinsic",
					},
					&cli.StringFlag{
						Name:  ikFlagMethod,
						Value: "jacobian_transpose",
						Usage: "jacobian_transpose or jacobian_pseudoinverse",
					},
					&cli.IntFlag{
						Name:  ikFlagRestarts,
						Value: 1,
						Usage: "number of random restarts allowed",
					},
					&cli.Int64Flag{
						Name:  solveFlagSeed,
						Value: 1,
						Usage: "seed for random restarts",
					},
				},
				Action: jsonAction(InverseKinematicsAction),
			},
			{
				Name:      "schema",
				Usage:     "print the JSON schema of a workspace spec or a search config",
				ArgsUsage: "<spec|config>",
				Action:    jsonAction(SchemaAction),
			},
		},
		OnUsageError: usageError,
	}
	for _, cmd := range app.Commands {
		cmd.OnUsageError = usageError
	}
	return app
}
