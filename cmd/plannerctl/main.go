// Command plannerctl mints tokens, manages the schema and probes a running
// planner server
package main

import (
	"fmt"
	"os"

	"github.com/weeklydish/planner/internal/cli"
)

var version = "dev"

func main() {
	root := cli.NewRootCommand(version)
	root.SetOut(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
