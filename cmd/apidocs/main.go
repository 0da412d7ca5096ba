package main

import (
	"os"

	"github.com/alexbrand/apidocs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
