package analysis

import (
	"math"

	"github.com/runnerr0/textwrapped/internal/storage"
)

const (
	minReplyGap      = 10     // seconds; faster "replies" are duplicates
	maxReplyGap      = 86400  // seconds; slower ones are not replies
	sessionGap       = 4 * 60 * 60
	defaultReplyMins = 30
	defaultStarterPc = 50
)

// TrendEntry is a one-to-one conversation with its first/second half counts.
// For Ghosted the halves count received messages; for HeatingUp, all messages.
type TrendEntry struct {
	ConversationRollup
	FirstHalf  int `json:"first_half"`
	SecondHalf int `json:"second_half"`
}

// AsymmetryEntry is a one-to-one conversation with a lopsided volume.
// Score is Received/(Sent+1) for fans and Sent/(Received+1) for simps.
type AsymmetryEntry struct {
	ConversationRollup
	Score float64 `json:"score"`
}

// Ghosted lists contacts who sent more than 10 messages in H1 and fewer
// than 3 in H2, most H1 messages first.
func (e *Engine) Ghosted(limit int) []TrendEntry {
	var out []TrendEntry
	for _, c := range e.direct() {
		if c.h1Received > 10 && c.h2Received < 3 {
			out = append(out, TrendEntry{ConversationRollup: c.rollup, FirstHalf: c.h1Received, SecondHalf: c.h2Received})
		}
	}
	return rank(out, func(a, b TrendEntry) bool { return a.FirstHalf > b.FirstHalf }, limit)
}

// HeatingUp lists contacts with more than 20 messages in H1 whose H2 volume
// exceeds 1.5x that, largest growth first.
func (e *Engine) HeatingUp(limit int) []TrendEntry {
	var out []TrendEntry
	for _, c := range e.direct() {
		// h2 > 1.5*h1 without floats
		if c.h1Total > 20 && 2*c.h2Total > 3*c.h1Total {
			out = append(out, TrendEntry{ConversationRollup: c.rollup, FirstHalf: c.h1Total, SecondHalf: c.h2Total})
		}
	}
	return rank(out, func(a, b TrendEntry) bool {
		return a.SecondHalf-a.FirstHalf > b.SecondHalf-b.FirstHalf
	}, limit)
}

// BiggestFan lists contacts who sent more than twice what they received
// from the user, over more than 100 messages.
func (e *Engine) BiggestFan(limit int) []AsymmetryEntry {
	var out []AsymmetryEntry
	for _, c := range e.direct() {
		r := c.rollup
		if r.Received > 2*r.Sent && r.Total > 100 {
			out = append(out, AsymmetryEntry{ConversationRollup: r, Score: float64(r.Received) / float64(r.Sent+1)})
		}
	}
	return rank(out, func(a, b AsymmetryEntry) bool { return a.Score > b.Score }, limit)
}

// Simp mirrors BiggestFan: the user sent more than twice what they received.
func (e *Engine) Simp(limit int) []AsymmetryEntry {
	var out []AsymmetryEntry
	for _, c := range e.direct() {
		r := c.rollup
		if r.Sent > 2*r.Received && r.Total > 100 {
			out = append(out, AsymmetryEntry{ConversationRollup: r, Score: float64(r.Sent) / float64(r.Received+1)})
		}
	}
	return rank(out, func(a, b AsymmetryEntry) bool { return a.Score > b.Score }, limit)
}

// ResponseTimeMinutes is the mean gap, in whole minutes, between a received
// message and the user's immediately following reply in the same one-to-one
// conversation. Only gaps strictly between 10 seconds and 24 hours count.
// Without any qualifying pair it returns 30.
func (e *Engine) ResponseTimeMinutes() int {
	var sum, n int64
	for _, c := range e.direct() {
		for i := 1; i < len(c.msgs); i++ {
			prev, cur := c.msgs[i-1], c.msgs[i]
			if prev.Direction != storage.Received || cur.Direction != storage.Sent {
				continue
			}
			gap := cur.Timestamp - prev.Timestamp
			if gap > minReplyGap && gap < maxReplyGap {
				sum += gap
				n++
			}
		}
	}
	if n == 0 {
		return defaultReplyMins
	}
	return int(math.Round(float64(sum) / float64(n) / 60))
}

// ConversationStarterPercent is the share of one-to-one sessions the user
// opened. A session starts at a conversation's first message and after any
// gap longer than four hours. Without sessions it returns 50.
func (e *Engine) ConversationStarterPercent() int {
	var sessions, mine int
	for _, c := range e.direct() {
		for i, m := range c.msgs {
			if i > 0 && m.Timestamp-c.msgs[i-1].Timestamp <= sessionGap {
				continue
			}
			sessions++
			if m.Direction == storage.Sent {
				mine++
			}
		}
	}
	if sessions == 0 {
		return defaultStarterPc
	}
	return int(math.RoundToEven(100 * float64(mine) / float64(sessions)))
}
