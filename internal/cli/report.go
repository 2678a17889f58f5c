package cli

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/runnerr0/textwrapped/internal/analysis"
	"github.com/runnerr0/textwrapped/internal/config"
	"github.com/runnerr0/textwrapped/internal/metrics"
	"github.com/runnerr0/textwrapped/internal/storage"
)

// Execute implements the go-flags Commander interface for ReportCommand.
func (c *ReportCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(cfg, c.globals)

	openers, err := buildOpeners(cfg, c.IMessage, c.WhatsApp)
	if err != nil {
		return err
	}

	return c.executeWith(context.Background(), cfg, openers, log)
}

// executeWith runs the report against the given stores (for testing).
func (c *ReportCommand) executeWith(ctx context.Context, cfg *config.Config, openers []storage.Opener, log zerolog.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	now := c.clock().In(loc)

	year := c.Year
	if year == 0 {
		year = cfg.Window.Year
	}
	pinned := year != 0
	if !pinned {
		year = now.Year()
	}

	// Load from the previous year's start when the fallback may apply, so
	// one load serves both windows.
	since := analysis.WindowForYear(year, loc).Start
	if !pinned {
		since = analysis.WindowForYear(year-1, loc).Start
	}

	m := metrics.New()
	loadStart := time.Now()
	ds, statuses, err := storage.LoadAll(ctx, openers, since)
	loadTime := time.Since(loadStart)
	for _, st := range statuses {
		m.ObserveStore(st.Source, st.Messages, loadTime, st.Err)
	}
	logStatuses(log, statuses)
	if err != nil {
		return err
	}

	contacts := c.Contacts
	if contacts == "" {
		contacts = cfg.Analysis.ContactsFile
	}
	resolver, err := buildResolver(ds, contacts)
	if err != nil {
		return err
	}

	opts := analysis.Options{
		Resolver:          resolver,
		Now:               func() time.Time { return now },
		ExcludeShortCodes: cfg.Analysis.ExcludeShortCodes,
		Emojis:            cfg.Analysis.Emojis,
	}

	analyzeStart := time.Now()
	engine := analysis.New(ds, analysis.WindowForYear(year, loc), opts)
	if !pinned && engine.Len() < cfg.Window.MinMessages {
		log.Info().
			Int("year", year).
			Int("messages", engine.Len()).
			Int("min_messages", cfg.Window.MinMessages).
			Msg("too few messages this year, using last year")
		year--
		engine = analysis.New(ds, analysis.WindowForYear(year, loc), opts)
	}

	report := engine.Compute(cfg.Limits)
	report.Stores = engine.StoreReports(statuses)

	m.AnalysisDuration.Observe(time.Since(analyzeStart).Seconds())
	m.MessagesAnalyzed.Set(float64(engine.Len()))
	for _, r := range engine.Rollups() {
		m.ConversationsTotal.WithLabelValues(r.Kind.String()).Inc()
	}
	m.ReportYear.Set(float64(year))
	m.LastRunTimestamp.Set(float64(report.GeneratedAt.Unix()))

	log.Debug().
		Str("run_id", report.RunID).
		Int("year", year).
		Int("messages", engine.Len()).
		Msg("computed report")

	metricsFile := c.MetricsFile
	if metricsFile == "" {
		metricsFile = cfg.Metrics.File
	}
	if metricsFile != "" {
		path, err := config.ExpandPath(metricsFile)
		if err != nil {
			return err
		}
		if err := m.WriteTextfile(path); err != nil {
			return err
		}
		log.Debug().Str("path", path).Msg("wrote metrics")
	}

	output := c.Output
	if output == "" {
		output = cfg.Output.Path
	}
	if output != "" {
		path, err := config.ExpandPath(output)
		if err != nil {
			return err
		}
		if err := writeJSONFile(path, report); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("wrote report")
	}

	if c.globals != nil && c.globals.JSON {
		return printReportJSON(report)
	}
	printReportHuman(report)
	return nil
}
