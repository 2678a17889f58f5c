package storage

import (
	"database/sql"
	"fmt"
)

// schema is the subset of one vendor store's tables this tool reads.
type schema struct {
	Name  string
	Stmts []string
}

var imessageSchema = schema{
	Name: "imessage",
	Stmts: []string{
		`CREATE TABLE IF NOT EXISTS handle (
			ROWID   INTEGER PRIMARY KEY AUTOINCREMENT,
			id      TEXT NOT NULL,
			service TEXT NOT NULL DEFAULT 'iMessage'
		)`,
		`CREATE TABLE IF NOT EXISTS chat (
			ROWID           INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_identifier TEXT,
			display_name    TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS chat_handle_join (
			chat_id   INTEGER REFERENCES chat (ROWID) ON DELETE CASCADE,
			handle_id INTEGER REFERENCES handle (ROWID) ON DELETE CASCADE,
			UNIQUE (chat_id, handle_id)
		)`,
		`CREATE TABLE IF NOT EXISTS message (
			ROWID      INTEGER PRIMARY KEY AUTOINCREMENT,
			text       TEXT,
			handle_id  INTEGER DEFAULT 0,
			date       INTEGER,
			is_from_me INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS chat_message_join (
			chat_id    INTEGER REFERENCES chat (ROWID) ON DELETE CASCADE,
			message_id INTEGER REFERENCES message (ROWID) ON DELETE CASCADE,
			PRIMARY KEY (chat_id, message_id)
		)`,
		`CREATE INDEX IF NOT EXISTS message_idx_date ON message(date)`,
		`CREATE INDEX IF NOT EXISTS chat_message_join_idx_message_id ON chat_message_join(message_id)`,
	},
}

var whatsappSchema = schema{
	Name: "whatsapp",
	Stmts: []string{
		`CREATE TABLE IF NOT EXISTS ZWACHATSESSION (
			Z_PK         INTEGER PRIMARY KEY,
			ZCONTACTJID  VARCHAR,
			ZPARTNERNAME VARCHAR,
			ZSESSIONTYPE INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS ZWAMESSAGE (
			Z_PK         INTEGER PRIMARY KEY,
			ZCHATSESSION INTEGER,
			ZISFROMME    INTEGER,
			ZMESSAGEDATE TIMESTAMP,
			ZTEXT        VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS ZWAGROUPMEMBER (
			Z_PK         INTEGER PRIMARY KEY,
			ZCHATSESSION INTEGER,
			ZMEMBERJID   VARCHAR,
			ZCONTACTNAME VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS ZWAPROFILEPUSHNAME (
			Z_PK      INTEGER PRIMARY KEY,
			ZJID      VARCHAR,
			ZPUSHNAME VARCHAR
		)`,
		`CREATE INDEX IF NOT EXISTS Z_WAMESSAGE_ZCHATSESSION ON ZWAMESSAGE(ZCHATSESSION)`,
		`CREATE INDEX IF NOT EXISTS Z_WAMESSAGE_ZMESSAGEDATE ON ZWAMESSAGE(ZMESSAGEDATE)`,
	},
}

// CreateIMessageSchema creates the Apple Messages tables this tool reads.
// Every statement uses IF NOT EXISTS, so re-running is safe.
func CreateIMessageSchema(db *sql.DB) error {
	return applySchema(db, imessageSchema)
}

// CreateWhatsAppSchema creates the WhatsApp tables this tool reads.
func CreateWhatsAppSchema(db *sql.DB) error {
	return applySchema(db, whatsappSchema)
}

// applySchema executes every statement of s inside one transaction.
func applySchema(db *sql.DB, s schema) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range s.Stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("create %s schema: %w", s.Name, err)
		}
	}

	return tx.Commit()
}
