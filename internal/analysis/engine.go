// Package analysis computes the year-in-review metrics over canonical
// message records.
package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/runnerr0/textwrapped/internal/naming"
	"github.com/runnerr0/textwrapped/internal/storage"
)

// ConversationRollup is the per-conversation summary every ranked list is
// built from. Sent + Received == Total always.
type ConversationRollup struct {
	ID        string       `json:"id"`
	Handle    string       `json:"handle"`
	Name      string       `json:"name"`
	Source    string       `json:"source"`
	Kind      storage.Kind `json:"-"`
	Total     int          `json:"total"`
	Sent      int          `json:"sent"`
	Received  int          `json:"received"`
	LateNight int          `json:"late_night"`
	Ratio     float64      `json:"ratio"` // Sent / (Received + 1)
	First     int64        `json:"first"`
	Last      int64        `json:"last"`
}

// conversation holds one conversation's in-window messages in chronological
// order, plus its rollup and half-year split.
type conversation struct {
	storage.Conversation
	msgs   []storage.Message
	rollup ConversationRollup

	h1Total, h2Total       int
	h1Received, h2Received int
}

// Engine indexes a Dataset once for a Window. All metric methods are pure
// reads over that index, so calling them in any order gives the same result.
type Engine struct {
	window Window
	opts   Options
	loc    *time.Location

	convs []*conversation // natural store order
	msgs  []storage.Message
}

// New filters ds to w, groups messages by conversation and sorts each
// conversation chronologically. Messages with equal timestamps keep their
// store order.
func New(ds *storage.Dataset, w Window, opts Options) *Engine {
	if opts.Resolver == nil {
		var names map[string]string
		if ds != nil {
			names = ds.Names
		}
		opts.Resolver = naming.NewDirectory(names)
	}
	e := &Engine{window: w, opts: opts, loc: w.location()}
	if ds == nil {
		return e
	}

	byID := make(map[string]*conversation)
	add := func(c storage.Conversation) *conversation {
		if opts.ExcludeShortCodes && c.Kind == storage.KindDirect && isShortCode(c.Handle) {
			c.Kind = storage.KindUnknown
		}
		conv := &conversation{Conversation: c}
		byID[c.ID] = conv
		e.convs = append(e.convs, conv)
		return conv
	}
	for _, c := range ds.Conversations {
		if _, ok := byID[c.ID]; !ok {
			add(c)
		}
	}

	for _, m := range ds.Messages {
		if !w.Contains(m.Timestamp) {
			continue
		}
		conv, ok := byID[m.ConversationID]
		if !ok {
			conv = add(storage.Conversation{ID: m.ConversationID, Source: m.Source, Kind: storage.KindUnknown})
		}
		m.Kind = conv.Kind
		conv.msgs = append(conv.msgs, m)
		e.msgs = append(e.msgs, m)
	}

	for _, conv := range e.convs {
		sort.SliceStable(conv.msgs, func(i, j int) bool {
			return conv.msgs[i].Timestamp < conv.msgs[j].Timestamp
		})
		e.roll(conv)
	}
	return e
}

func (e *Engine) roll(c *conversation) {
	r := ConversationRollup{
		ID:     c.ID,
		Handle: c.Handle,
		Name:   e.displayName(c),
		Source: c.Source,
		Kind:   c.Kind,
	}
	for _, m := range c.msgs {
		r.Total++
		if m.Direction == storage.Sent {
			r.Sent++
		} else {
			r.Received++
		}
		if e.localTime(m.Timestamp).Hour() < 5 {
			r.LateNight++
		}

		if e.window.FirstHalf(m.Timestamp) {
			c.h1Total++
			if m.Direction == storage.Received {
				c.h1Received++
			}
		} else {
			c.h2Total++
			if m.Direction == storage.Received {
				c.h2Received++
			}
		}
	}
	if n := len(c.msgs); n > 0 {
		r.First = c.msgs[0].Timestamp
		r.Last = c.msgs[n-1].Timestamp
	}
	r.Ratio = float64(r.Sent) / float64(r.Received+1)
	c.rollup = r
}

func (e *Engine) displayName(c *conversation) string {
	switch c.Kind {
	case storage.KindGroup:
		return naming.GroupName(c.Title, c.Participants, e.opts.Resolver)
	case storage.KindDirect:
		return e.opts.Resolver.Resolve(c.Handle)
	default:
		if c.Title != "" {
			return c.Title
		}
		if c.Handle != "" {
			return e.opts.Resolver.Resolve(c.Handle)
		}
		return c.ID
	}
}

// Window returns the window the engine was built for.
func (e *Engine) Window() Window { return e.window }

// Len returns the number of in-window messages of every kind.
func (e *Engine) Len() int { return len(e.msgs) }

// SourceCounts tallies in-window messages by store.
func (e *Engine) SourceCounts() map[string]int {
	counts := make(map[string]int)
	for _, m := range e.msgs {
		counts[m.Source]++
	}
	return counts
}

// Rollups returns every conversation with at least one in-window message,
// in natural store order.
func (e *Engine) Rollups() []ConversationRollup {
	var out []ConversationRollup
	for _, c := range e.convs {
		if c.rollup.Total > 0 {
			out = append(out, c.rollup)
		}
	}
	return out
}

// direct returns the one-to-one conversations with messages, in store order.
func (e *Engine) direct() []*conversation {
	return e.ofKind(storage.KindDirect)
}

func (e *Engine) groups() []*conversation {
	return e.ofKind(storage.KindGroup)
}

func (e *Engine) ofKind(k storage.Kind) []*conversation {
	var out []*conversation
	for _, c := range e.convs {
		if c.Kind == k && len(c.msgs) > 0 {
			out = append(out, c)
		}
	}
	return out
}

func (e *Engine) localTime(ts int64) time.Time {
	return time.Unix(ts, 0).In(e.loc)
}

var shortCodeSeparators = strings.NewReplacer("+", "", "-", "")

// isShortCode reports whether handle is a 5 or 6 digit number once any plus
// signs and dashes are dropped.
func isShortCode(handle string) bool {
	handle = shortCodeSeparators.Replace(handle)
	if len(handle) < 5 || len(handle) > 6 {
		return false
	}
	for _, r := range handle {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// rank orders items by before, keeping input order on ties, and truncates to
// limit. A limit of zero or less keeps everything.
func rank[T any](items []T, before func(a, b T) bool, limit int) []T {
	sort.SliceStable(items, func(i, j int) bool { return before(items[i], items[j]) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
