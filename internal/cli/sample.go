package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/runnerr0/textwrapped/internal/config"
	"github.com/runnerr0/textwrapped/internal/sample"
)

// Execute implements the go-flags Commander interface for SampleCommand.
func (c *SampleCommand) Execute(args []string) error {
	if c.Dir == "" {
		return fmt.Errorf("--dir is required")
	}
	dir, err := config.ExpandPath(c.Dir)
	if err != nil {
		return err
	}

	res, err := sample.Generate(context.Background(), sample.Options{
		Dir:   dir,
		Seed:  c.Seed,
		Year:  c.Year,
		Force: c.Force,
	})
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(os.Stdout, res)
	}

	fmt.Printf("Wrote %s messages to %s\n", formatCount(res.IMessageMessages), res.IMessagePath)
	fmt.Printf("Wrote %s messages to %s\n", formatCount(res.WhatsAppMessages), res.WhatsAppPath)
	fmt.Printf("Wrote contacts to %s\n", res.ContactsPath)
	fmt.Println()
	fmt.Printf("Try: textwrapped report --imessage %s --whatsapp %s --contacts %s\n",
		res.IMessagePath, res.WhatsAppPath, res.ContactsPath)
	return nil
}
