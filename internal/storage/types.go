package storage

import "time"

// CocoaEpochOffset is the number of seconds between the unix epoch and
// 2001-01-01 00:00:00 UTC, the reference date both vendor stores count from.
const CocoaEpochOffset = 978307200

// Direction says who sent a message.
type Direction int

const (
	Received Direction = iota
	Sent
)

func (d Direction) String() string {
	if d == Sent {
		return "sent"
	}
	return "received"
}

// Kind partitions conversations. Unknown covers chats with no recorded
// participants and broadcast lists: never one-to-one, never group.
type Kind int

const (
	KindUnknown Kind = iota
	KindDirect
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindDirect:
		return "direct"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// KindForParticipants classifies a chat by the number of participants other
// than the user. Zero participants is Unknown, not Direct.
func KindForParticipants(n int) Kind {
	switch {
	case n == 1:
		return KindDirect
	case n >= 2:
		return KindGroup
	default:
		return KindUnknown
	}
}

// Message is the canonical record produced by every Source.
type Message struct {
	ConversationID string
	Timestamp      int64 // unix seconds, UTC
	Direction      Direction
	Kind           Kind
	Text           string
	Source         string
}

// IsGroup reports whether the message belongs to a group conversation.
func (m Message) IsGroup() bool { return m.Kind == KindGroup }

// Time returns the message timestamp as a time.Time in UTC.
func (m Message) Time() time.Time { return time.Unix(m.Timestamp, 0).UTC() }

// Conversation describes one chat as seen by a Source.
type Conversation struct {
	ID           string
	Source       string
	Handle       string   // contact handle for direct chats, chat identifier for groups
	Kind         Kind
	Title        string   // explicit chat title, empty when the store has none
	Participants []string // participant handles in store order, excluding the user
}

// Dataset is everything a Source loaded for one window. Conversations are
// kept in natural store order; analysis uses that order to break ties.
type Dataset struct {
	Conversations []Conversation
	Messages      []Message
	// Names holds display names the store itself knows, keyed by handle.
	Names map[string]string
}

// Merge appends other to d, preserving order.
func (d *Dataset) Merge(other *Dataset) {
	if other == nil {
		return
	}
	d.Conversations = append(d.Conversations, other.Conversations...)
	d.Messages = append(d.Messages, other.Messages...)
	for k, v := range other.Names {
		if d.Names == nil {
			d.Names = make(map[string]string)
		}
		if _, ok := d.Names[k]; !ok {
			d.Names[k] = v
		}
	}
}

// StoreStatus records the outcome of opening and loading one store.
type StoreStatus struct {
	Source   string
	Path     string
	Messages int
	Err      error
}

// OK reports whether the store loaded.
func (s StoreStatus) OK() bool { return s.Err == nil }
