// Package main is the configurator command itself.
package main

import (
	"os"

	"github.com/austingheath/configurator/cli"
)

func main() {
	os.Exit(cli.Run(os.Args, os.Stdout, os.Stderr))
}
