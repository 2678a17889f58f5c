package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Report *ReportCommand
	Status *StatusCommand
	Sample *SampleCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "textwrapped"
	parser.LongDescription = "Year-in-review statistics from local Apple Messages and WhatsApp history."

	cmds := &commands{
		Report: &ReportCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Sample: &SampleCommand{globals: &globals, version: version},
	}

	parser.AddCommand("report", "Build the year-in-review report", "Load every configured message store and compute the year-in-review report.", cmds.Report)
	parser.AddCommand("status", "Show message store availability", "Show whether each configured message store can be read, and how many messages it holds for the year.", cmds.Status)
	parser.AddCommand("sample", "Write synthetic message stores", "Write a synthetic chat.db, ChatStorage.sqlite and contacts file for trying textwrapped without real history.", cmds.Sample)

	return parser, &globals, cmds
}

// Run is the main entry point for the textwrapped CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("textwrapped %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
