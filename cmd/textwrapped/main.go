// Command textwrapped prints a year-in-review of local Apple Messages and
// WhatsApp history.
package main

import (
	"os"

	"github.com/runnerr0/textwrapped/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if err := cli.RunWithArgs(version, args); err != nil {
		// The parser prints errors itself (goflags.PrintErrors).
		return 1
	}
	return 0
}
