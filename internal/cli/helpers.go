package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/runnerr0/textwrapped/internal/config"
	"github.com/runnerr0/textwrapped/internal/logging"
	"github.com/runnerr0/textwrapped/internal/naming"
	"github.com/runnerr0/textwrapped/internal/storage"
)

// loadConfig reads --config when given, otherwise the default config file,
// creating it with defaults on first run.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals == nil || globals.Config == "" {
		return config.LoadOrCreate()
	}
	path, err := config.ExpandPath(globals.Config)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

// newLogger builds the run logger. --log-level beats --verbose, which beats
// the config file.
func newLogger(cfg *config.Config, globals *GlobalFlags) zerolog.Logger {
	level := cfg.Logging.Level
	if globals != nil {
		switch {
		case globals.LogLevel != "":
			level = globals.LogLevel
		case globals.Verbose:
			level = "debug"
		}
	}
	return logging.New(logging.Config{Level: level, Format: cfg.Logging.Format})
}

// buildOpeners lists the stores to read. A path flag enables its store even
// when the config disables it.
func buildOpeners(cfg *config.Config, imessagePath, whatsappPath string) ([]storage.Opener, error) {
	var openers []storage.Opener

	switch {
	case imessagePath != "":
		path, err := config.ExpandPath(imessagePath)
		if err != nil {
			return nil, err
		}
		openers = append(openers, storage.IMessageOpener(path))
	case cfg.Sources.IMessage.Enabled:
		path, err := cfg.IMessagePath()
		if err != nil {
			return nil, err
		}
		openers = append(openers, storage.IMessageOpener(path))
	}

	switch {
	case whatsappPath != "":
		path, err := config.ExpandPath(whatsappPath)
		if err != nil {
			return nil, err
		}
		openers = append(openers, storage.WhatsAppOpener([]string{path}))
	case cfg.Sources.WhatsApp.Enabled:
		paths, err := cfg.WhatsAppPaths()
		if err != nil {
			return nil, err
		}
		openers = append(openers, storage.WhatsAppOpener(paths))
	}

	if len(openers) == 0 {
		return nil, fmt.Errorf("no message stores enabled: set sources in the config or pass --imessage/--whatsapp")
	}
	return openers, nil
}

// buildResolver combines the contacts file with names the stores know.
// Contacts file entries win.
func buildResolver(ds *storage.Dataset, contactsFile string) (*naming.Directory, error) {
	dir := naming.NewDirectory(nil)
	if contactsFile != "" {
		path, err := config.ExpandPath(contactsFile)
		if err != nil {
			return nil, err
		}
		contacts, err := naming.LoadContacts(path)
		if err != nil {
			return nil, err
		}
		for _, h := range slices.Sorted(maps.Keys(contacts)) {
			dir.Add(h, contacts[h])
		}
	}
	if ds != nil {
		for _, h := range slices.Sorted(maps.Keys(ds.Names)) {
			dir.Add(h, ds.Names[h])
		}
	}
	return dir, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrStoreNotFound)
}

// logStatuses reports each store load at info, or warn when it failed.
func logStatuses(log zerolog.Logger, statuses []storage.StoreStatus) {
	for _, st := range statuses {
		if st.OK() {
			log.Info().Str("store", st.Source).Str("path", st.Path).Int("messages", st.Messages).Msg("loaded store")
			continue
		}
		log.Warn().Str("store", st.Source).Str("path", st.Path).Err(st.Err).Msg("skipping store")
	}
}

// writeJSON encodes v with two-space indentation.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeJSONFile writes v as indented JSON to path.
func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	return f.Close()
}

// formatCount formats n with comma separators.
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// formatHour renders an hour of day as "11 PM".
func formatHour(h int) string {
	return time.Date(2000, time.January, 1, h, 0, 0, 0, time.UTC).Format("3 PM")
}

// plural returns "1 day" or "3 days".
func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%s %ss", formatCount(n), unit)
}
