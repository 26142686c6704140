package main

import (
	"fmt"
	"os"

	"github.com/trebuchet-org/sndeploy/internal/cli"
	"github.com/trebuchet-org/sndeploy/internal/cli/render"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
