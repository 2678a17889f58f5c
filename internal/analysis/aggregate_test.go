package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/textwrapped/internal/naming"
	"github.com/runnerr0/textwrapped/internal/storage"
)

func TestWindowForYear(t *testing.T) {
	w := WindowForYear(2025, nil)
	assert.Equal(t, int64(1735689600), w.Start)
	assert.Equal(t, int64(1748736000), w.Midpoint)
	assert.Equal(t, int64(1767225600), w.End)

	assert.False(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.Start+1))
	assert.False(t, w.Contains(w.End))
	assert.True(t, w.FirstHalf(w.Midpoint-1))
	assert.False(t, w.FirstHalf(w.Midpoint))

	open := Window{Start: 100}
	assert.True(t, open.Contains(1<<40))
}

func TestOverallStats_OneToOneOnlyButHistogramsCountEverything(t *testing.T) {
	b := newDataset(t)
	alice := b.direct("alice")
	family := b.group("Family", "mom", "dad")

	b.sent(alice, at(3, 1, 9, 0)).received(alice, at(3, 1, 9, 5)).received(alice, at(3, 1, 10, 0))
	b.many(family, 5, at(3, 2, 18, 0), storage.Received)

	e := b.engine()
	assert.Equal(t, OverallStats{Total: 3, Sent: 1, Received: 2, DistinctContacts: 1}, e.OverallStats())

	hourly := e.HourlyHistogram()
	sum := 0
	for _, n := range hourly {
		sum += n
	}
	assert.Equal(t, 8, sum)
	assert.Equal(t, 5, hourly[18])

	dow := e.DayOfWeekHistogram()
	assert.Equal(t, 3, dow[time.Saturday]) // 2025-03-01
	assert.Equal(t, 5, dow[time.Sunday])
}

func TestEngine_WindowBoundsAreExclusive(t *testing.T) {
	b := newDataset(t)
	alice := b.direct("alice")
	b.sent(alice, window2025.Start).
		sent(alice, window2025.Start+1).
		sent(alice, window2025.End-1).
		sent(alice, window2025.End)

	e := b.engine()
	assert.Equal(t, 2, e.Len())
	assert.Equal(t, 2, e.OverallStats().Total)
}

func TestRollups_SentPlusReceivedIsTotal(t *testing.T) {
	b := newDataset(t)
	alice := b.direct("alice")
	bob := b.direct("bob")
	grp := b.group("", "alice", "bob")
	b.many(alice, 7, at(1, 5, 12, 0), storage.Sent).many(alice, 3, at(1, 6, 12, 0), storage.Received)
	b.many(bob, 4, at(2, 5, 12, 0), storage.Received)
	b.many(grp, 2, at(2, 6, 12, 0), storage.Sent)

	for _, r := range b.engine().Rollups() {
		assert.Equal(t, r.Total, r.Sent+r.Received, r.ID)
		assert.InDelta(t, float64(r.Sent)/float64(r.Received+1), r.Ratio, 1e-9)
		assert.LessOrEqual(t, r.First, r.Last)
	}
}

func TestTopContacts_StableOnTies(t *testing.T) {
	b := newDataset(t)
	first := b.direct("first")
	second := b.direct("second")
	third := b.direct("third")
	b.many(second, 3, at(1, 2, 12, 0), storage.Sent)
	b.many(first, 3, at(1, 3, 12, 0), storage.Sent)
	b.many(third, 5, at(1, 4, 12, 0), storage.Received)

	top := b.engine().TopContacts(2)
	require.Len(t, top, 2)
	assert.Equal(t, "third", top[0].Handle)
	assert.Equal(t, "first", top[1].Handle)
}

func TestLateNightLeaders_NeedsMoreThanFive(t *testing.T) {
	b := newDataset(t)
	owl := b.direct("owl")
	lark := b.direct("lark")
	b.many(owl, 6, at(4, 1, 2, 0), storage.Received)
	b.many(lark, 5, at(4, 1, 3, 0), storage.Received)
	b.many(lark, 20, at(4, 1, 12, 0), storage.Received)

	leaders := b.engine().LateNightLeaders(5)
	require.Len(t, leaders, 1)
	assert.Equal(t, "owl", leaders[0].Handle)
	assert.Equal(t, 6, leaders[0].LateNight)
}

func TestWordCount(t *testing.T) {
	b := newDataset(t)
	alice := b.direct("alice")
	grp := b.group("g", "x", "y")
	ts := at(5, 1, 12, 0)
	b.msg(alice, ts, storage.Sent, "hello world foo")
	b.msg(alice, ts+1, storage.Sent, `Liked "cool pic"`)
	b.msg(alice, ts+2, storage.Sent, `laughed at "that"`)
	b.msg(alice, ts+3, storage.Sent, "")
	b.msg(alice, ts+4, storage.Sent, "   ")
	b.msg(alice, ts+5, storage.Received, "not mine at all")
	b.msg(grp, ts+6, storage.Sent, "  two  words ")

	// every interior space counts, so "two  words" is three
	assert.Equal(t, 6, b.engine().WordCount())
	assert.Equal(t, 3, wordsIn("hello world foo"))
	assert.Equal(t, 0, wordsIn(`Liked "cool pic"`))
	assert.Equal(t, 2, wordsIn("Liked it"))
}

func TestEmojiUsage(t *testing.T) {
	b := newDataset(t)
	alice := b.direct("alice")
	ts := at(6, 1, 12, 0)
	b.msg(alice, ts, storage.Sent, "😂😂 lol 🔥")
	b.msg(alice, ts+1, storage.Sent, "🔥")
	b.msg(alice, ts+2, storage.Sent, "love ❤️")
	b.msg(alice, ts+3, storage.Received, "😭😭😭")

	got := b.engine().EmojiUsage(DefaultEmojis, 4)
	assert.Equal(t, []EmojiCount{
		{Emoji: "🔥", Count: 2},
		{Emoji: "😂", Count: 1},
		{Emoji: "❤️", Count: 1},
		{Emoji: "😭", Count: 0},
	}, got)
}

func TestBusiestDayAndTopDays(t *testing.T) {
	b := newDataset(t)
	alice := b.direct("alice")
	b.many(alice, 3, at(7, 4, 12, 0), storage.Sent)
	b.many(alice, 3, at(2, 14, 12, 0), storage.Sent)
	b.many(alice, 1, at(1, 1, 12, 0), storage.Sent)

	e := b.engine()
	day, ok := e.BusiestDay()
	require.True(t, ok)
	assert.Equal(t, DayCount{Date: "2025-02-14", Count: 3}, day)

	assert.Equal(t, []DayCount{
		{Date: "2025-02-14", Count: 3},
		{Date: "2025-07-04", Count: 3},
	}, e.TopDays(2))

	_, ok = newDataset(t).engine().BusiestDay()
	assert.False(t, ok)
}

func TestDailyActivity_UsesWindowLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	b := newDataset(t)
	alice := b.direct("alice")
	b.sent(alice, at(3, 2, 3, 0)) // 22:00 on Mar 1 at UTC-5

	e := New(b.dataset(), WindowForYear(2025, loc), Options{})
	assert.Equal(t, map[string]int{"2025-03-01": 1}, e.DailyActivity())
	assert.Equal(t, 1, e.HourlyHistogram()[22])
}

func TestPeakHour(t *testing.T) {
	assert.Equal(t, 12, newDataset(t).engine().PeakHour())

	b := newDataset(t)
	alice := b.direct("alice")
	b.many(alice, 2, at(3, 1, 20, 0), storage.Sent)
	b.many(alice, 2, at(3, 1, 9, 0), storage.Sent)
	e := b.engine()
	assert.Equal(t, 9, e.PeakHour())

	day, ok := e.PeakWeekday()
	assert.True(t, ok)
	assert.Equal(t, time.Saturday, day)
}

func TestGroupOverviewAndLeaderboard(t *testing.T) {
	b := newDataset(t)
	b.ds.Names = map[string]string{"+15550001111": "Alice"}
	quiet := b.group("", "+15550001111", "+15550002222", "+15550003333")
	loud := b.group("Book Club", "x", "y")
	b.group("Dormant", "p", "q")
	alice := b.direct("+15550001111")

	b.many(quiet, 2, at(8, 1, 12, 0), storage.Sent)
	b.many(loud, 4, at(8, 2, 12, 0), storage.Received)
	b.sent(loud, at(8, 3, 12, 0))
	b.sent(alice, at(8, 4, 12, 0))

	e := b.engine()
	assert.Equal(t, GroupOverview{ActiveGroups: 2, TotalMessages: 7, SentByUser: 3}, e.GroupOverview())

	board := e.GroupLeaderboard(5)
	require.Len(t, board, 2)
	assert.Equal(t, "Book Club", board[0].Name)
	assert.Equal(t, 5, board[0].Total)
	assert.Equal(t, "Alice, +15550002222 +1 other", board[1].Name)
}

func TestUnknownConversations_CountOnlyInGlobalMetrics(t *testing.T) {
	b := newDataset(t)
	alice := b.direct("alice")
	orphan := b.unknown()
	b.sent(alice, at(9, 1, 12, 0))
	b.msg(orphan, at(9, 1, 13, 0), storage.Sent, "one two")
	b.msg("test:missing", at(9, 1, 14, 0), storage.Received, "") // no conversation row

	e := b.engine()
	assert.Equal(t, 3, e.Len())
	assert.Equal(t, 1, e.OverallStats().Total)
	assert.Equal(t, 0, e.GroupOverview().TotalMessages)
	assert.Equal(t, 2, e.WordCount())
	assert.Len(t, e.Rollups(), 3)
}

func TestExcludeShortCodes(t *testing.T) {
	b := newDataset(t)
	bank := b.direct("72975")
	alice := b.direct("+15550001111")
	b.many(bank, 10, at(2, 1, 12, 0), storage.Received)
	b.sent(alice, at(2, 2, 12, 0))

	kept := New(b.dataset(), window2025, Options{})
	assert.Equal(t, 11, kept.OverallStats().Total)

	dropped := New(b.dataset(), window2025, Options{ExcludeShortCodes: true})
	assert.Equal(t, 1, dropped.OverallStats().Total)
	assert.Equal(t, 11, dropped.Len())
}

func TestExcludeShortCodes_IgnoresPlusAndDash(t *testing.T) {
	b := newDataset(t)
	plus := b.direct("+12345")
	dashed := b.direct("123-45")
	alice := b.direct("+15550001111")
	b.many(plus, 4, at(2, 1, 12, 0), storage.Received)
	b.many(dashed, 3, at(2, 1, 13, 0), storage.Received)
	b.sent(alice, at(2, 2, 12, 0))

	e := New(b.dataset(), window2025, Options{ExcludeShortCodes: true})
	assert.Equal(t, 1, e.OverallStats().Total)
	top := e.TopContacts(10)
	require.Len(t, top, 1)
	assert.Equal(t, "+15550001111", top[0].Handle)
}

func TestIsShortCode(t *testing.T) {
	tests := []struct {
		handle string
		want   bool
	}{
		{"72975", true},
		{"729750", true},
		{"+72975", true},
		{"72-975", true},
		{"7297", false},
		{"7297501", false},
		{"+15550001111", false},
		{"bank@example.com", false},
		{"+-+-+", false},
	}
	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			assert.Equal(t, tt.want, isShortCode(tt.handle))
		})
	}
}

func TestSourceCounts(t *testing.T) {
	ds := &storage.Dataset{Messages: []storage.Message{
		{ConversationID: "a", Source: "imessage", Timestamp: at(1, 5, 10, 0)},
		{ConversationID: "a", Source: "imessage", Timestamp: at(6, 5, 10, 0)},
		{ConversationID: "b", Source: "whatsapp", Timestamp: at(6, 5, 11, 0)},
		{ConversationID: "b", Source: "whatsapp", Timestamp: time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC).Unix()},
	}}
	e := New(ds, window2025, Options{})
	assert.Equal(t, map[string]int{"imessage": 2, "whatsapp": 1}, e.SourceCounts())
	assert.Empty(t, New(nil, window2025, Options{}).SourceCounts())
}

func TestResolverNamesDirectContacts(t *testing.T) {
	b := newDataset(t)
	alice := b.direct("+15550001111")
	b.sent(alice, at(2, 2, 12, 0))

	resolver := naming.ResolverFunc(func(h string) string { return "name of " + h })
	e := New(b.dataset(), window2025, Options{Resolver: resolver})
	assert.Equal(t, "name of +15550001111", e.TopContacts(1)[0].Name)
}

func TestEmptyDataset(t *testing.T) {
	e := New(nil, window2025, Options{})
	assert.Equal(t, OverallStats{}, e.OverallStats())
	assert.Empty(t, e.TopContacts(20))
	assert.Equal(t, 0, e.WordCount())
	assert.Equal(t, 30, e.ResponseTimeMinutes())
	assert.Equal(t, 50, e.ConversationStarterPercent())
	assert.Empty(t, e.GroupLeaderboard(5))
}
