package cli

import (
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/austingheath/configurator/configurator"
	"github.com/austingheath/configurator/logging"
)

var schemas = map[string]func() *jsonschema.Schema{
	"spec":   func() *jsonschema.Schema { return jsonschema.Reflect(&configurator.WorkspaceSpec{}) },
	"config": func() *jsonschema.Schema { return jsonschema.Reflect(&configurator.Config{}) },
}

// SchemaAction prints the JSON schema of the input named by the first argument.
func SchemaAction(c *cli.Context, logger logging.Logger) (interface{}, error) {
	name := c.Args().First()
	schema, ok := schemas[name]
	if !ok {
		return nil, errors.Errorf("unknown schema %q, expected spec or config", name)
	}
	return schema(), nil
}
