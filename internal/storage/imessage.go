package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SourceIMessage names the Apple Messages store.
const SourceIMessage = "imessage"

// nanosecondDateThreshold separates the two encodings of message.date:
// macOS 10.13+ writes nanoseconds since 2001, older stores wrote seconds.
const nanosecondDateThreshold = 100_000_000_000

// imessageUnixExpr converts message.date to unix seconds in SQL.
const imessageUnixExpr = `((CASE WHEN m.date > 100000000000 THEN m.date / 1000000000 ELSE m.date END) + 978307200)`

// IMessageSource reads an Apple Messages chat.db.
type IMessageSource struct {
	db   *sql.DB
	path string
}

// OpenIMessage opens chat.db read-only.
func OpenIMessage(path string) (*IMessageSource, error) {
	db, err := openReadOnly(SourceIMessage, path, "message")
	if err != nil {
		return nil, err
	}
	return &IMessageSource{db: db, path: path}, nil
}

// IMessageOpener returns an Opener for the chat.db at path.
func IMessageOpener(path string) Opener {
	return Opener{
		Source: SourceIMessage,
		Path:   path,
		Open: func() (Source, error) {
			return OpenIMessage(path)
		},
	}
}

// IMessageUnix converts a raw message.date value to unix seconds.
func IMessageUnix(date int64) int64 {
	if date > nanosecondDateThreshold {
		date /= 1_000_000_000
	}
	return date + CocoaEpochOffset
}

func (s *IMessageSource) Name() string { return SourceIMessage }
func (s *IMessageSource) Path() string { return s.path }

// Close closes the underlying database.
func (s *IMessageSource) Close() error { return s.db.Close() }

type imessageChat struct {
	rowID        int64
	title        string
	participants []string
}

// Load reads every message after since. Chats with exactly one handle are
// direct conversations keyed by that handle, so several chats with the same
// person (SMS and iMessage threads) merge. Chats with two or more handles are
// groups keyed by chat. Chats with no handles, and messages that belong to no
// chat, are Unknown.
func (s *IMessageSource) Load(ctx context.Context, since int64) (*Dataset, error) {
	chats, err := s.loadChats(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT m.ROWID, `+imessageUnixExpr+` AS ts, COALESCE(m.is_from_me, 0), m.text,
		       COALESCE(cmj.chat_id, 0)
		FROM message m
		LEFT JOIN chat_message_join cmj ON cmj.message_id = m.ROWID
		WHERE `+imessageUnixExpr+` > ?
		ORDER BY m.ROWID, cmj.chat_id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	convIDs := make(map[int64]string) // chat ROWID -> conversation ID
	convs := make(map[string]*Conversation)
	kinds := make(map[int64]Kind)
	for _, c := range chats {
		kind := KindForParticipants(len(c.participants))
		kinds[c.rowID] = kind

		var conv Conversation
		switch kind {
		case KindDirect:
			conv = Conversation{
				ID:           SourceIMessage + ":" + c.participants[0],
				Handle:       c.participants[0],
				Participants: c.participants,
			}
		default:
			conv = Conversation{
				ID:           fmt.Sprintf("%s:chat:%d", SourceIMessage, c.rowID),
				Handle:       fmt.Sprintf("chat%d", c.rowID),
				Title:        c.title,
				Participants: c.participants,
			}
		}
		conv.Source = SourceIMessage
		conv.Kind = kind
		convIDs[c.rowID] = conv.ID
		if _, ok := convs[conv.ID]; !ok {
			convs[conv.ID] = &conv
		}
	}

	ds := &Dataset{}
	seen := make(map[int64]bool)
	used := make(map[string]bool)

	for rows.Next() {
		var (
			rowID, ts, fromMe, chatID int64
			text                      sql.NullString
		)
		if err := rows.Scan(&rowID, &ts, &fromMe, &text, &chatID); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if seen[rowID] {
			continue
		}
		seen[rowID] = true

		convID, kind := orphanConversationID, KindUnknown
		if id, ok := convIDs[chatID]; ok {
			convID, kind = id, kinds[chatID]
		}
		used[convID] = true

		dir := Received
		if fromMe == 1 {
			dir = Sent
		}
		ds.Messages = append(ds.Messages, Message{
			ConversationID: convID,
			Timestamp:      ts,
			Direction:      dir,
			Kind:           kind,
			Text:           text.String,
			Source:         SourceIMessage,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	ds.Conversations = orderedConversations(chats, convIDs, convs, used)
	if used[orphanConversationID] {
		ds.Conversations = append(ds.Conversations, Conversation{
			ID:     orphanConversationID,
			Source: SourceIMessage,
			Kind:   KindUnknown,
		})
	}

	return ds, nil
}

const orphanConversationID = SourceIMessage + ":unassigned"

// orderedConversations lists the conversations that received messages, in
// chat ROWID order of their first chat.
func orderedConversations(chats []imessageChat, convIDs map[int64]string, convs map[string]*Conversation, used map[string]bool) []Conversation {
	var out []Conversation
	emitted := make(map[string]bool)
	for _, c := range chats {
		id := convIDs[c.rowID]
		if !used[id] || emitted[id] {
			continue
		}
		emitted[id] = true
		out = append(out, *convs[id])
	}
	return out
}

// loadChats reads chats in ROWID order with their participant handles.
func (s *IMessageSource) loadChats(ctx context.Context) ([]imessageChat, error) {
	participants := make(map[int64][]string)
	rows, err := s.db.QueryContext(ctx, `
		SELECT chj.chat_id, COALESCE(h.id, '')
		FROM chat_handle_join chj
		LEFT JOIN handle h ON h.ROWID = chj.handle_id
		ORDER BY chj.chat_id, chj.handle_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query chat participants: %w", err)
	}
	for rows.Next() {
		var chatID int64
		var handle string
		if err := rows.Scan(&chatID, &handle); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan chat participant: %w", err)
		}
		participants[chatID] = append(participants[chatID], handle)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat participants: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT ROWID, COALESCE(display_name, '') FROM chat ORDER BY ROWID`)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	var chats []imessageChat
	for rows.Next() {
		var c imessageChat
		if err := rows.Scan(&c.rowID, &c.title); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		c.participants = participants[c.rowID]
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
