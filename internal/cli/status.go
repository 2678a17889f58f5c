package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/runnerr0/textwrapped/internal/analysis"
	"github.com/runnerr0/textwrapped/internal/config"
	"github.com/runnerr0/textwrapped/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version string            `json:"version"`
	Year    int               `json:"year"`
	Stores  []storeStatusJSON `json:"stores"`
}

type storeStatusJSON struct {
	Source   string `json:"source"`
	Path     string `json:"path"`
	Status   string `json:"status"`
	Messages int    `json:"messages"`
	Error    string `json:"error,omitempty"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	openers, err := buildOpeners(cfg, c.IMessage, c.WhatsApp)
	if err != nil {
		return err
	}

	return c.executeWith(context.Background(), cfg, openers)
}

// executeWith probes the given stores (for testing). A store that cannot be
// read is reported, not returned as an error.
func (c *StatusCommand) executeWith(ctx context.Context, cfg *config.Config, openers []storage.Opener) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	year := cfg.Window.Year
	if year == 0 {
		year = c.clock().In(loc).Year()
	}

	_, statuses, err := storage.LoadAll(ctx, openers, analysis.WindowForYear(year, loc).Start)
	if err != nil && !errors.Is(err, storage.ErrNoStores) {
		return err
	}

	out := statusJSON{
		Version: c.version,
		Year:    year,
		Stores:  make([]storeStatusJSON, len(statuses)),
	}
	for i, st := range statuses {
		out.Stores[i] = storeStatusJSON{
			Source:   st.Source,
			Path:     st.Path,
			Status:   storeStatusLabel(st),
			Messages: st.Messages,
		}
		if st.Err != nil {
			out.Stores[i].Error = st.Err.Error()
		}
	}

	if c.globals != nil && c.globals.JSON {
		return writeJSON(os.Stdout, out)
	}
	c.printStatusHuman(out)
	return nil
}

func (c *StatusCommand) printStatusHuman(out statusJSON) {
	fmt.Println("textwrapped Status")
	fmt.Println("==================")
	fmt.Printf("Version:       %s\n", out.Version)
	fmt.Printf("Year:          %d\n", out.Year)

	ready := 0
	for _, s := range out.Stores {
		fmt.Println()
		fmt.Printf("%s\n", s.Source)
		fmt.Printf("  Path:        %s\n", s.Path)
		fmt.Printf("  Status:      %s\n", s.Status)
		if s.Status == "ok" {
			ready++
			fmt.Printf("  Messages:    %s\n", formatCount(s.Messages))
		}
	}

	if ready == 0 {
		fmt.Println()
		fmt.Println("No store is readable. On macOS, grant your terminal Full Disk Access,")
		fmt.Println("or run `textwrapped sample --dir DIR` to try synthetic data.")
	}
}
