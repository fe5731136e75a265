package main

import (
	"os"

	"github.com/replicate/buildgen/pkg/cli"
	"github.com/replicate/buildgen/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		cli.PrintError(err)
		os.Exit(1)
	}
}
