package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/austingheath/configurator/configurator"
	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/logging"
)

func loadConfig(c *cli.Context) (configurator.Config, error) {
	path := c.String(generalFlagConfig)
	if path == "" {
		return configurator.DefaultConfig(), nil
	}
	cfg, err := configurator.ReadConfig(path)
	if err != nil {
		if kinematics.KindOf(err) != "" {
			return configurator.Config{}, err
		}
		return configurator.Config{}, kinematics.WrapError(kinematics.InvalidOptions, err, "bad config")
	}
	return cfg, nil
}

// readSpec reads a workspace spec from path, or from in when path is "-". Unknown fields are rejected.
func readSpec(path string, in io.Reader) (configurator.WorkspaceSpec, error) {
	var spec configurator.WorkspaceSpec
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		//nolint:gosec
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return spec, kinematics.WrapError(kinematics.InvalidTarget, err, "cannot read workspace spec")
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&spec); err != nil {
		return spec, kinematics.WrapError(kinematics.InvalidTarget, err, "cannot parse workspace spec")
	}
	return spec, nil
}

// SolveAction searches for a chain reaching the workspace spec given by --spec.
func SolveAction(c *cli.Context, logger logging.Logger) (interface{}, error) {
	if err := requireFlags(c, solveFlagSpec); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	if c.IsSet(solveFlagWorkers) {
		cfg.Workers = c.Int(solveFlagWorkers)
	}
	if c.IsSet(solveFlagSeed) {
		cfg.Seed = c.Int64(solveFlagSeed)
	}
	if c.IsSet(solveFlagTimeout) {
		cfg.Timeout = c.Duration(solveFlagTimeout)
	}

	spec, err := readSpec(c.String(solveFlagSpec), c.App.Reader)
	if err != nil {
		return nil, err
	}
	res, err := configurator.Solve(c.Context, spec, cfg, logger.Sublogger("search"))
	if err != nil {
		return nil, err
	}
	if c.Bool(solveFlagTable) {
		return textOutput(res.Table()), nil
	}
	return res, nil
}
