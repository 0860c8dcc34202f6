package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"github.com/austingheath/configurator/kinematics"
	"github.com/austingheath/configurator/logging"
)

const (
	// kindInvalidInput is reported for unreadable input and bad command line usage.
	kindInvalidInput = "InvalidInput"
	// kindInternal is reported when a command panics.
	kindInternal = "Internal"
)

type errorBody struct {
	Error   bool   `json:"error"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// reportedError is a failure that has already been printed as an error body.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// textOutput is printed as is rather than as JSON.
type textOutput string

type actionFunc func(c *cli.Context, logger logging.Logger) (interface{}, error)

// jsonAction adapts f into a cli action printing its result, or its error as an error body, as JSON.
func jsonAction(f actionFunc) cli.ActionFunc {
	return func(c *cli.Context) (err error) {
		logger := newLogger(c)
		defer logging.ReplaceGlobal(logging.Global())
		logging.ReplaceGlobal(logger)
		defer func() {
			if thePanic := recover(); thePanic != nil {
				err = reportError(c.App.Writer, kindInternal, errors.Errorf("panic: %v", thePanic))
			}
			utils.UncheckedError(logger.Sync())
		}()

		res, err := f(c, logger)
		if err != nil {
			return reportError(c.App.Writer, errorKind(err), err)
		}
		if text, ok := res.(textOutput); ok {
			_, err := fmt.Fprintln(c.App.Writer, string(text))
			return err
		}
		return printJSON(c.App.Writer, res)
	}
}

func newLogger(c *cli.Context) logging.Logger {
	level := logging.WARN
	if c.Bool(generalFlagDebug) {
		level = logging.DEBUG
	}
	return logging.NewWriterLogger("configurator", level, c.App.ErrWriter)
}

func errorKind(err error) string {
	if kind := kinematics.KindOf(err); kind != "" {
		return string(kind)
	}
	return kindInvalidInput
}

func reportError(out io.Writer, kind string, err error) error {
	if printErr := printError(out, kind, err); printErr != nil {
		return printErr
	}
	return reportedError{err}
}

func printError(out io.Writer, kind string, err error) error {
	return printJSON(out, errorBody{Error: true, Kind: kind, Message: err.Error()})
}

func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// requireFlags checks the named flags are set. Missing flags are reported as InvalidInput.
func requireFlags(c *cli.Context, names ...string) error {
	for _, name := range names {
		if !c.IsSet(name) {
			return errors.Errorf("flag --%s is required", name)
		}
	}
	return nil
}

// usageError returns flag parsing errors without printing help, so the error body is the only output.
func usageError(_ *cli.Context, err error, _ bool) error {
	return err
}

// decodeFlag parses a JSON valued flag, reporting malformed input as the given kind.
func decodeFlag(c *cli.Context, name string, kind kinematics.Kind, v interface{}) error {
	if err := json.Unmarshal([]byte(c.String(name)), v); err != nil {
		return kinematics.WrapError(kind, err, "cannot parse --%s", name)
	}
	return nil
}

func chainFromFlag(c *cli.Context) (*kinematics.Chain, error) {
	var rows [][]float64
	if err := decodeFlag(c, chainFlagDH, kinematics.InvalidChain, &rows); err != nil {
		return nil, err
	}
	return kinematics.ChainFromSlices(rows)
}

// Run runs the app on args and returns the process exit code. Failures the commands did not report
// themselves, such as missing flags, are printed as error bodies too.
func Run(args []string, out, errOut io.Writer) int {
	if err := NewApp(out, errOut).Run(args); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			utils.UncheckedError(printError(out, errorKind(err), err))
		}
		return 1
	}
	return 0
}
