package cli

import (
	"time"

	"github.com/runnerr0/textwrapped/internal/storage"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config   string `long:"config" description:"Path to config file" default:""`
	JSON     bool   `long:"json" description:"Output in JSON format"`
	Verbose  bool   `long:"verbose" description:"Enable verbose output"`
	Version  bool   `long:"version" description:"Show version and exit"`
	LogLevel string `long:"log-level" description:"Override log level (debug, info, warn, error)"`
}

// ReportCommand builds the year-in-review report.
type ReportCommand struct {
	Year        int    `long:"year" description:"Calendar year to analyze (default: current year, falling back to last year)"`
	Output      string `long:"output" short:"o" description:"Write report JSON to FILE"`
	IMessage    string `long:"imessage" description:"Path to an Apple Messages chat.db"`
	WhatsApp    string `long:"whatsapp" description:"Path to a WhatsApp ChatStorage.sqlite"`
	Contacts    string `long:"contacts" description:"YAML file mapping handles to display names"`
	MetricsFile string `long:"metrics-file" description:"Write Prometheus metrics to FILE"`

	globals *GlobalFlags
	version string
	now     func() time.Time // injectable for testing; nil means time.Now
}

// StatusCommand shows which message stores can be read.
type StatusCommand struct {
	IMessage string `long:"imessage" description:"Path to an Apple Messages chat.db"`
	WhatsApp string `long:"whatsapp" description:"Path to a WhatsApp ChatStorage.sqlite"`

	globals *GlobalFlags
	version string
	now     func() time.Time
}

// SampleCommand writes synthetic message stores.
type SampleCommand struct {
	Dir   string `long:"dir" description:"Directory to write the sample stores into (required)"`
	Seed  int64  `long:"seed" description:"Random seed" default:"1"`
	Year  int    `long:"year" description:"Year to fill (default: current year)"`
	Force bool   `long:"force" description:"Overwrite existing sample files"`

	globals *GlobalFlags
	version string
}

func (c *ReportCommand) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *StatusCommand) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// storeStatusLabel names the outcome of one store load.
func storeStatusLabel(st storage.StoreStatus) string {
	switch {
	case st.OK():
		return "ok"
	case isNotFound(st.Err):
		return "not found"
	default:
		return "access denied"
	}
}
