package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/runnerr0/textwrapped/internal/storage"
)

var window2025 = WindowForYear(2025, time.UTC)

// at returns a 2025 UTC timestamp.
func at(month time.Month, day, hour, minute int) int64 {
	return time.Date(2025, month, day, hour, minute, 0, 0, time.UTC).Unix()
}

// fixedNow pins the clock used by the current streak.
func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// datasetBuilder assembles a canonical Dataset without touching SQLite.
type datasetBuilder struct {
	t     *testing.T
	ds    storage.Dataset
	kinds map[string]storage.Kind
}

func newDataset(t *testing.T) *datasetBuilder {
	t.Helper()
	return &datasetBuilder{t: t, kinds: make(map[string]storage.Kind)}
}

func (b *datasetBuilder) direct(handle string) string {
	id := "test:" + handle
	b.ds.Conversations = append(b.ds.Conversations, storage.Conversation{
		ID: id, Source: "test", Handle: handle, Kind: storage.KindDirect, Participants: []string{handle},
	})
	b.kinds[id] = storage.KindDirect
	return id
}

func (b *datasetBuilder) group(title string, participants ...string) string {
	id := fmt.Sprintf("test:group:%d", len(b.ds.Conversations))
	b.ds.Conversations = append(b.ds.Conversations, storage.Conversation{
		ID: id, Source: "test", Kind: storage.KindGroup, Title: title, Participants: participants,
	})
	b.kinds[id] = storage.KindGroup
	return id
}

func (b *datasetBuilder) unknown() string {
	id := fmt.Sprintf("test:unknown:%d", len(b.ds.Conversations))
	b.ds.Conversations = append(b.ds.Conversations, storage.Conversation{ID: id, Source: "test"})
	b.kinds[id] = storage.KindUnknown
	return id
}

func (b *datasetBuilder) msg(conv string, ts int64, dir storage.Direction, text string) *datasetBuilder {
	b.ds.Messages = append(b.ds.Messages, storage.Message{
		ConversationID: conv, Timestamp: ts, Direction: dir, Kind: b.kinds[conv], Text: text, Source: "test",
	})
	return b
}

func (b *datasetBuilder) sent(conv string, ts int64) *datasetBuilder {
	return b.msg(conv, ts, storage.Sent, "")
}

func (b *datasetBuilder) received(conv string, ts int64) *datasetBuilder {
	return b.msg(conv, ts, storage.Received, "")
}

// many adds n messages one minute apart starting at ts.
func (b *datasetBuilder) many(conv string, n int, ts int64, dir storage.Direction) *datasetBuilder {
	for i := 0; i < n; i++ {
		b.msg(conv, ts+int64(i)*60, dir, "")
	}
	return b
}

func (b *datasetBuilder) dataset() *storage.Dataset {
	return &b.ds
}

func (b *datasetBuilder) engine() *Engine {
	return New(b.dataset(), window2025, Options{Now: fixedNow(time.Date(2025, time.December, 31, 12, 0, 0, 0, time.UTC))})
}
