package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// WhatsApp ZSESSIONTYPE values.
const (
	WhatsAppSessionDirect    = 0
	WhatsAppSessionGroup     = 1
	WhatsAppSessionBroadcast = 2
)

// IMessageWriter inserts rows into an Apple Messages schema using the
// vendor's encodings. It backs the sample generator and tests.
type IMessageWriter struct {
	db *sql.DB

	insertHandle      *sql.Stmt
	insertChat        *sql.Stmt
	insertChatHandle  *sql.Stmt
	insertMessage     *sql.Stmt
	insertChatMessage *sql.Stmt
}

// NewIMessageWriter creates the schema if needed and prepares statements.
func NewIMessageWriter(db *sql.DB) (*IMessageWriter, error) {
	if err := CreateIMessageSchema(db); err != nil {
		return nil, err
	}

	w := &IMessageWriter{db: db}
	var err error
	if w.insertHandle, err = db.Prepare(`INSERT INTO handle (id) VALUES (?)`); err != nil {
		return nil, fmt.Errorf("prepare handle insert: %w", err)
	}
	if w.insertChat, err = db.Prepare(`INSERT INTO chat (display_name) VALUES (?)`); err != nil {
		return nil, fmt.Errorf("prepare chat insert: %w", err)
	}
	if w.insertChatHandle, err = db.Prepare(`INSERT INTO chat_handle_join (chat_id, handle_id) VALUES (?, ?)`); err != nil {
		return nil, fmt.Errorf("prepare chat_handle_join insert: %w", err)
	}
	if w.insertMessage, err = db.Prepare(`INSERT INTO message (text, handle_id, date, is_from_me) VALUES (?, ?, ?, ?)`); err != nil {
		return nil, fmt.Errorf("prepare message insert: %w", err)
	}
	if w.insertChatMessage, err = db.Prepare(`INSERT INTO chat_message_join (chat_id, message_id) VALUES (?, ?)`); err != nil {
		return nil, fmt.Errorf("prepare chat_message_join insert: %w", err)
	}
	return w, nil
}

// AddHandle inserts a contact handle (phone number or email).
func (w *IMessageWriter) AddHandle(ctx context.Context, id string) (int64, error) {
	res, err := w.insertHandle.ExecContext(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("insert handle: %w", err)
	}
	return res.LastInsertId()
}

// AddChat inserts a chat and joins the given handles to it. An empty
// displayName is stored as NULL, as Messages does for untitled chats.
func (w *IMessageWriter) AddChat(ctx context.Context, displayName string, handleIDs ...int64) (int64, error) {
	res, err := w.insertChat.ExecContext(ctx, nullString(displayName))
	if err != nil {
		return 0, fmt.Errorf("insert chat: %w", err)
	}
	chatID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, h := range handleIDs {
		if _, err := w.insertChatHandle.ExecContext(ctx, chatID, h); err != nil {
			return 0, fmt.Errorf("join handle %d to chat %d: %w", h, chatID, err)
		}
	}
	return chatID, nil
}

// AddMessage inserts a message at the given unix time. The date column is
// written as nanoseconds since 2001-01-01. A chatID of 0 leaves the message
// outside any chat; empty text is stored as NULL.
func (w *IMessageWriter) AddMessage(ctx context.Context, chatID, handleID, unix int64, fromMe bool, text string) (int64, error) {
	date := (unix - CocoaEpochOffset) * 1_000_000_000
	res, err := w.insertMessage.ExecContext(ctx, nullString(text), handleID, date, boolInt(fromMe))
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	msgID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if chatID != 0 {
		if _, err := w.insertChatMessage.ExecContext(ctx, chatID, msgID); err != nil {
			return 0, fmt.Errorf("join message %d to chat %d: %w", msgID, chatID, err)
		}
	}
	return msgID, nil
}

// Close releases prepared statements. The *sql.DB is the caller's.
func (w *IMessageWriter) Close() error {
	closeStmts(w.insertHandle, w.insertChat, w.insertChatHandle, w.insertMessage, w.insertChatMessage)
	return nil
}

// WhatsAppWriter inserts rows into a WhatsApp ChatStorage schema.
type WhatsAppWriter struct {
	db *sql.DB

	insertSession  *sql.Stmt
	insertMember   *sql.Stmt
	insertMessage  *sql.Stmt
	insertPushName *sql.Stmt
}

// NewWhatsAppWriter creates the schema if needed and prepares statements.
func NewWhatsAppWriter(db *sql.DB) (*WhatsAppWriter, error) {
	if err := CreateWhatsAppSchema(db); err != nil {
		return nil, err
	}

	w := &WhatsAppWriter{db: db}
	var err error
	if w.insertSession, err = db.Prepare(`INSERT INTO ZWACHATSESSION (ZCONTACTJID, ZPARTNERNAME, ZSESSIONTYPE) VALUES (?, ?, ?)`); err != nil {
		return nil, fmt.Errorf("prepare session insert: %w", err)
	}
	if w.insertMember, err = db.Prepare(`INSERT INTO ZWAGROUPMEMBER (ZCHATSESSION, ZMEMBERJID, ZCONTACTNAME) VALUES (?, ?, ?)`); err != nil {
		return nil, fmt.Errorf("prepare member insert: %w", err)
	}
	if w.insertMessage, err = db.Prepare(`INSERT INTO ZWAMESSAGE (ZCHATSESSION, ZISFROMME, ZMESSAGEDATE, ZTEXT) VALUES (?, ?, ?, ?)`); err != nil {
		return nil, fmt.Errorf("prepare message insert: %w", err)
	}
	if w.insertPushName, err = db.Prepare(`INSERT INTO ZWAPROFILEPUSHNAME (ZJID, ZPUSHNAME) VALUES (?, ?)`); err != nil {
		return nil, fmt.Errorf("prepare push name insert: %w", err)
	}
	return w, nil
}

// AddSession inserts a chat session. sessionType is one of the
// WhatsAppSession constants.
func (w *WhatsAppWriter) AddSession(ctx context.Context, contactJID, partnerName string, sessionType int) (int64, error) {
	res, err := w.insertSession.ExecContext(ctx, nullString(contactJID), nullString(partnerName), sessionType)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return res.LastInsertId()
}

// AddMember records a group member.
func (w *WhatsAppWriter) AddMember(ctx context.Context, sessionID int64, memberJID, contactName string) error {
	if _, err := w.insertMember.ExecContext(ctx, sessionID, memberJID, nullString(contactName)); err != nil {
		return fmt.Errorf("insert group member: %w", err)
	}
	return nil
}

// AddMessage inserts a message at the given unix time. ZMESSAGEDATE is
// written as seconds since 2001-01-01.
func (w *WhatsAppWriter) AddMessage(ctx context.Context, sessionID, unix int64, fromMe bool, text string) (int64, error) {
	date := float64(unix - CocoaEpochOffset)
	res, err := w.insertMessage.ExecContext(ctx, sessionID, boolInt(fromMe), date, nullString(text))
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}
	return res.LastInsertId()
}

// AddPushName records the name a contact published for themselves.
func (w *WhatsAppWriter) AddPushName(ctx context.Context, jid, name string) error {
	if _, err := w.insertPushName.ExecContext(ctx, jid, name); err != nil {
		return fmt.Errorf("insert push name: %w", err)
	}
	return nil
}

// Close releases prepared statements.
func (w *WhatsAppWriter) Close() error {
	closeStmts(w.insertSession, w.insertMember, w.insertMessage, w.insertPushName)
	return nil
}

func closeStmts(stmts ...*sql.Stmt) {
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
