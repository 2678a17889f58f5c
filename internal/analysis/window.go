package analysis

import (
	"time"

	"github.com/runnerr0/textwrapped/internal/naming"
)

// Window is the analysis year. A message counts when its timestamp is
// strictly after Start and, if End is set, strictly before End. Messages
// before Midpoint fall in the first half (H1), the rest in H2.
type Window struct {
	Year     int            `json:"year"`
	Start    int64          `json:"start"`
	Midpoint int64          `json:"midpoint"`
	End      int64          `json:"end,omitempty"`
	Location *time.Location `json:"-"`
}

// WindowForYear returns Jan 1, Jun 1 and the following Jan 1 of year in loc.
// A nil loc means UTC.
func WindowForYear(year int, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	return Window{
		Year:     year,
		Start:    time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Unix(),
		Midpoint: time.Date(year, time.June, 1, 0, 0, 0, 0, loc).Unix(),
		End:      time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc).Unix(),
		Location: loc,
	}
}

// Contains reports whether ts falls inside the window.
func (w Window) Contains(ts int64) bool {
	return ts > w.Start && (w.End == 0 || ts < w.End)
}

// FirstHalf reports whether ts falls before the midpoint.
func (w Window) FirstHalf(ts int64) bool { return ts < w.Midpoint }

func (w Window) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

// Limits caps the length of every ranked list.
type Limits struct {
	TopContacts      int `yaml:"top_contacts" json:"top_contacts"`
	LateNight        int `yaml:"late_night" json:"late_night"`
	Ghosted          int `yaml:"ghosted" json:"ghosted"`
	HeatingUp        int `yaml:"heating_up" json:"heating_up"`
	Fan              int `yaml:"fan" json:"fan"`
	Simp             int `yaml:"simp" json:"simp"`
	GroupLeaderboard int `yaml:"group_leaderboard" json:"group_leaderboard"`
	Emoji            int `yaml:"emoji" json:"emoji"`
	TopDays          int `yaml:"top_days" json:"top_days"`
}

// DefaultLimits returns the list lengths used by the report.
func DefaultLimits() Limits {
	return Limits{
		TopContacts:      20,
		LateNight:        5,
		Ghosted:          5,
		HeatingUp:        5,
		Fan:              5,
		Simp:             5,
		GroupLeaderboard: 5,
		Emoji:            5,
		TopDays:          5,
	}
}

// DefaultEmojis is the candidate list for EmojiUsage.
var DefaultEmojis = []string{"😂", "❤️", "😭", "🔥", "💀", "✨", "🙏", "👀", "💯", "😈"}

// Options tunes an Engine. The zero value is usable.
type Options struct {
	// Resolver names conversations. Defaults to a Directory built from the
	// names the stores themselves carry.
	Resolver naming.Resolver

	// Now is the clock used for the current streak. Defaults to time.Now.
	Now func() time.Time

	// ExcludeShortCodes drops 5 and 6 digit numeric handles (business SMS)
	// from one-to-one metrics.
	ExcludeShortCodes bool

	// Emojis overrides DefaultEmojis.
	Emojis []string
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o Options) emojis() []string {
	if len(o.Emojis) == 0 {
		return DefaultEmojis
	}
	return o.Emojis
}
