package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/runnerr0/textwrapped/internal/storage"
)

// dateLayout keys DailyActivity.
const dateLayout = "2006-01-02"

// OverallStats covers one-to-one conversations only.
type OverallStats struct {
	Total            int `json:"total"`
	Sent             int `json:"sent"`
	Received         int `json:"received"`
	DistinctContacts int `json:"distinct_contacts"`
}

// OverallStats sums every one-to-one conversation.
func (e *Engine) OverallStats() OverallStats {
	var s OverallStats
	for _, c := range e.direct() {
		s.Total += c.rollup.Total
		s.Sent += c.rollup.Sent
		s.Received += c.rollup.Received
		s.DistinctContacts++
	}
	return s
}

// TopContacts ranks one-to-one conversations by total messages.
func (e *Engine) TopContacts(limit int) []ConversationRollup {
	return rank(e.rollupsOf(e.direct()), func(a, b ConversationRollup) bool {
		return a.Total > b.Total
	}, limit)
}

// LateNightLeaders ranks one-to-one conversations with more than five
// messages between midnight and 5am.
func (e *Engine) LateNightLeaders(limit int) []ConversationRollup {
	var out []ConversationRollup
	for _, c := range e.direct() {
		if c.rollup.LateNight > 5 {
			out = append(out, c.rollup)
		}
	}
	return rank(out, func(a, b ConversationRollup) bool {
		return a.LateNight > b.LateNight
	}, limit)
}

func (e *Engine) rollupsOf(convs []*conversation) []ConversationRollup {
	out := make([]ConversationRollup, 0, len(convs))
	for _, c := range convs {
		out = append(out, c.rollup)
	}
	return out
}

// HourlyHistogram counts every in-window message by local hour.
func (e *Engine) HourlyHistogram() [24]int {
	var h [24]int
	for _, m := range e.msgs {
		h[e.localTime(m.Timestamp).Hour()]++
	}
	return h
}

// DayOfWeekHistogram counts every in-window message by local weekday,
// Sunday first.
func (e *Engine) DayOfWeekHistogram() [7]int {
	var d [7]int
	for _, m := range e.msgs {
		d[e.localTime(m.Timestamp).Weekday()]++
	}
	return d
}

// PeakHour is the busiest local hour, the earliest on ties, or noon when
// there are no messages.
func (e *Engine) PeakHour() int {
	if len(e.msgs) == 0 {
		return 12
	}
	h := e.HourlyHistogram()
	return argmax(h[:])
}

// PeakWeekday is the busiest local weekday. ok is false without messages.
func (e *Engine) PeakWeekday() (day time.Weekday, ok bool) {
	if len(e.msgs) == 0 {
		return time.Sunday, false
	}
	d := e.DayOfWeekHistogram()
	return time.Weekday(argmax(d[:])), true
}

func argmax(counts []int) int {
	best := 0
	for i, n := range counts {
		if n > counts[best] {
			best = i
		}
	}
	return best
}

// reactionPrefixes are the tapback messages older clients send as text.
var reactionPrefixes = []string{
	`Loved "`,
	`Liked "`,
	`Disliked "`,
	`Laughed at "`,
	`Emphasized "`,
	`Questioned "`,
}

// WordCount sums the words of sent messages. Blank messages and tapback
// reactions count zero. Words are the spaces inside the space-trimmed text
// plus one.
func (e *Engine) WordCount() int {
	total := 0
	for _, m := range e.msgs {
		if m.Direction == storage.Sent {
			total += wordsIn(m.Text)
		}
	}
	return total
}

func wordsIn(text string) int {
	trimmed := strings.Trim(text, " ")
	if trimmed == "" || isReaction(text) {
		return 0
	}
	return strings.Count(trimmed, " ") + 1
}

// isReaction matches the prefixes ASCII case-insensitively.
func isReaction(text string) bool {
	for _, p := range reactionPrefixes {
		if len(text) >= len(p) && strings.EqualFold(text[:len(p)], p) {
			return true
		}
	}
	return false
}

// EmojiCount is the number of sent messages containing Emoji.
type EmojiCount struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// EmojiUsage counts, for each candidate, the sent messages that contain it.
// A message can count for several candidates. Results are ranked by count,
// candidate order on ties; zero counts are kept.
func (e *Engine) EmojiUsage(candidates []string, limit int) []EmojiCount {
	out := make([]EmojiCount, len(candidates))
	for i, emoji := range candidates {
		out[i].Emoji = emoji
	}
	for _, m := range e.msgs {
		if m.Direction != storage.Sent || m.Text == "" {
			continue
		}
		for i, emoji := range candidates {
			if strings.Contains(m.Text, emoji) {
				out[i].Count++
			}
		}
	}
	return rank(out, func(a, b EmojiCount) bool { return a.Count > b.Count }, limit)
}

// DayCount is the message count of one local calendar date.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyActivity maps local dates (YYYY-MM-DD) to message counts across
// every conversation.
func (e *Engine) DailyActivity() map[string]int {
	daily := make(map[string]int)
	for _, m := range e.msgs {
		daily[e.localTime(m.Timestamp).Format(dateLayout)]++
	}
	return daily
}

// BusiestDay returns the date with the most messages, the earliest on ties.
func (e *Engine) BusiestDay() (DayCount, bool) {
	days := e.TopDays(1)
	if len(days) == 0 {
		return DayCount{}, false
	}
	return days[0], true
}

// TopDays ranks dates by message count, earliest first on ties.
func (e *Engine) TopDays(limit int) []DayCount {
	daily := e.DailyActivity()
	days := make([]DayCount, 0, len(daily))
	for date, n := range daily {
		days = append(days, DayCount{Date: date, Count: n})
	}
	sort.Slice(days, func(i, j int) bool {
		if days[i].Count != days[j].Count {
			return days[i].Count > days[j].Count
		}
		return days[i].Date < days[j].Date
	})
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	return days
}

// GroupOverview summarizes group conversations with in-window messages.
type GroupOverview struct {
	ActiveGroups  int `json:"active_groups"`
	TotalMessages int `json:"total_messages"`
	SentByUser    int `json:"sent_by_user"`
}

// GroupOverview sums every active group conversation.
func (e *Engine) GroupOverview() GroupOverview {
	var g GroupOverview
	for _, c := range e.groups() {
		g.ActiveGroups++
		g.TotalMessages += c.rollup.Total
		g.SentByUser += c.rollup.Sent
	}
	return g
}

// GroupLeaderboard ranks group conversations by total messages.
func (e *Engine) GroupLeaderboard(limit int) []ConversationRollup {
	return rank(e.rollupsOf(e.groups()), func(a, b ConversationRollup) bool {
		return a.Total > b.Total
	}, limit)
}
