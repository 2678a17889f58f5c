package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/textwrapped/internal/config"
	"github.com/runnerr0/textwrapped/internal/sample"
	"github.com/runnerr0/textwrapped/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
// The pipe is drained while fn runs so large reports do not block.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	w.Close()
	os.Stdout = old
	return <-done
}

// sampleStores writes synthetic 2025 stores into a temp dir.
func sampleStores(t *testing.T) *sample.Result {
	t.Helper()
	res, err := sample.Generate(context.Background(), sample.Options{
		Dir:  t.TempDir(),
		Seed: 11,
		Year: 2025,
		Now:  func() time.Time { return time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return res
}

func sampleOpeners(res *sample.Result) []storage.Opener {
	return []storage.Opener{
		storage.IMessageOpener(res.IMessagePath),
		storage.WhatsAppOpener([]string{res.WhatsAppPath}),
	}
}

func missingOpeners(t *testing.T) []storage.Opener {
	dir := t.TempDir()
	return []storage.Opener{
		storage.IMessageOpener(filepath.Join(dir, "chat.db")),
		storage.WhatsAppOpener([]string{filepath.Join(dir, "ChatStorage.sqlite")}),
	}
}

// testConfig returns defaults pinned to UTC.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Window.Timezone = "UTC"
	return cfg
}

// writeConfigFile writes a config whose stores point into an empty temp dir.
func writeConfigFile(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body := "window:\n  timezone: UTC\n  year: 2025\n" +
		"sources:\n  imessage:\n    enabled: true\n    path: " + filepath.Join(dir, "chat.db") + "\n" +
		"  whatsapp:\n    enabled: true\n    paths:\n      - " + filepath.Join(dir, "ChatStorage.sqlite") + "\n" +
		"logging:\n  level: error\n  format: json\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func decemberNow() time.Time {
	return time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC)
}
