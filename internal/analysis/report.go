package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/runnerr0/textwrapped/internal/storage"
)

// StoreReport is the outcome of loading one store.
type StoreReport struct {
	Source   string `json:"source"`
	Path     string `json:"path"`
	Messages int    `json:"messages"`
	Error    string `json:"error,omitempty"`
}

// Report is the structured result handed to a renderer. RunID is fresh on
// every Compute and GeneratedAt reads the clock. Every other field depends
// only on the data, the window and the options.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Window      Window        `json:"window"`
	Stores      []StoreReport `json:"stores,omitempty"`

	Overall     OverallStats         `json:"overall"`
	TopContacts []ConversationRollup `json:"top_contacts"`
	LateNight   []ConversationRollup `json:"late_night"`

	Hourly      [24]int `json:"hourly"`
	DayOfWeek   [7]int  `json:"day_of_week"`
	PeakHour    int     `json:"peak_hour"`
	PeakWeekday string  `json:"peak_weekday,omitempty"`

	Words      int          `json:"words"`
	Emoji      []EmojiCount `json:"emoji"`
	BusiestDay *DayCount    `json:"busiest_day,omitempty"`
	TopDays    []DayCount   `json:"top_days"`

	Groups           GroupOverview        `json:"groups"`
	GroupLeaderboard []ConversationRollup `json:"group_leaderboard"`

	Ghosted         []TrendEntry     `json:"ghosted"`
	HeatingUp       []TrendEntry     `json:"heating_up"`
	BiggestFans     []AsymmetryEntry `json:"biggest_fans"`
	Simps           []AsymmetryEntry `json:"simps"`
	ResponseMinutes int              `json:"response_minutes"`
	StarterPercent  int              `json:"starter_percent"`

	Calendar    Calendar    `json:"calendar"`
	Personality Personality `json:"personality"`
}

// Compute runs every metric over e.
func (e *Engine) Compute(limits Limits) *Report {
	r := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: e.opts.now().UTC(),
		Window:      e.window,

		Overall:     e.OverallStats(),
		TopContacts: e.TopContacts(limits.TopContacts),
		LateNight:   e.LateNightLeaders(limits.LateNight),

		Hourly:    e.HourlyHistogram(),
		DayOfWeek: e.DayOfWeekHistogram(),
		PeakHour:  e.PeakHour(),

		Words:   e.WordCount(),
		Emoji:   e.EmojiUsage(e.opts.emojis(), limits.Emoji),
		TopDays: e.TopDays(limits.TopDays),

		Groups:           e.GroupOverview(),
		GroupLeaderboard: e.GroupLeaderboard(limits.GroupLeaderboard),

		Ghosted:         e.Ghosted(limits.Ghosted),
		HeatingUp:       e.HeatingUp(limits.HeatingUp),
		BiggestFans:     e.BiggestFan(limits.Fan),
		Simps:           e.Simp(limits.Simp),
		ResponseMinutes: e.ResponseTimeMinutes(),
		StarterPercent:  e.ConversationStarterPercent(),
	}
	if day, ok := e.PeakWeekday(); ok {
		r.PeakWeekday = day.String()
	}
	if day, ok := e.BusiestDay(); ok {
		r.BusiestDay = &day
	}

	r.Calendar = BuildCalendar(e.DailyActivity(), e.window.Year, e.opts.now().In(e.loc))
	r.Personality = Classify(PersonalityInput{
		PeakHour:        r.PeakHour,
		ResponseMinutes: r.ResponseMinutes,
		Sent:            r.Overall.Sent,
		Received:        r.Overall.Received,
		StarterPercent:  r.StarterPercent,
	})
	return r
}

// Compute builds an Engine over ds and runs every metric.
func Compute(ds *storage.Dataset, w Window, limits Limits, opts Options) *Report {
	return New(ds, w, opts).Compute(limits)
}

// StoreReports converts load statuses for the report. Messages counts only
// what falls inside the engine's window, not everything the store loaded.
func (e *Engine) StoreReports(statuses []storage.StoreStatus) []StoreReport {
	counts := e.SourceCounts()
	out := make([]StoreReport, 0, len(statuses))
	for _, st := range statuses {
		sr := StoreReport{Source: st.Source, Path: st.Path}
		if st.Err != nil {
			sr.Error = st.Err.Error()
		} else {
			sr.Messages = counts[st.Source]
		}
		out = append(out, sr)
	}
	return out
}
