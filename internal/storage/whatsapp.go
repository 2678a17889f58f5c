package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// SourceWhatsApp names the WhatsApp store.
const SourceWhatsApp = "whatsapp"

// WhatsAppSource reads a WhatsApp ChatStorage.sqlite.
type WhatsAppSource struct {
	db   *sql.DB
	path string
}

// OpenWhatsApp opens ChatStorage.sqlite read-only.
func OpenWhatsApp(path string) (*WhatsAppSource, error) {
	db, err := openReadOnly(SourceWhatsApp, path, "ZWAMESSAGE")
	if err != nil {
		return nil, err
	}
	return &WhatsAppSource{db: db, path: path}, nil
}

// FindWhatsApp returns the first candidate path that exists. When none
// exists it returns the first candidate, so opening it reports
// ErrStoreNotFound against a meaningful path.
func FindWhatsApp(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil || !errors.Is(err, fs.ErrNotExist) {
			return p
		}
	}
	if len(paths) > 0 {
		return paths[0]
	}
	return ""
}

// WhatsAppOpener returns an Opener for the first existing candidate path.
func WhatsAppOpener(paths []string) Opener {
	path := FindWhatsApp(paths)
	return Opener{
		Source: SourceWhatsApp,
		Path:   path,
		Open: func() (Source, error) {
			return OpenWhatsApp(path)
		},
	}
}

// WhatsAppUnix converts a ZMESSAGEDATE value to unix seconds.
func WhatsAppUnix(date float64) int64 {
	return int64(date) + CocoaEpochOffset
}

func (s *WhatsAppSource) Name() string { return SourceWhatsApp }
func (s *WhatsAppSource) Path() string { return s.path }

// Close closes the underlying database.
func (s *WhatsAppSource) Close() error { return s.db.Close() }

type whatsappSession struct {
	pk          int64
	contactJID  string
	partnerName string
	sessionType int
	members     []string
}

// Load reads every message after since. Direct sessions are keyed by the
// contact JID, group sessions by session, and members come from
// ZWAGROUPMEMBER. Broadcast lists and sessions of unknown type are Unknown.
func (s *WhatsAppSource) Load(ctx context.Context, since int64) (*Dataset, error) {
	sessions, err := s.loadSessions(ctx)
	if err != nil {
		return nil, err
	}

	convIDs := make(map[int64]string)
	kinds := make(map[int64]Kind)
	convs := make(map[string]Conversation)
	var order []string
	for _, sess := range sessions {
		conv := Conversation{Source: SourceWhatsApp}
		switch {
		case sess.sessionType == WhatsAppSessionDirect && sess.contactJID != "":
			conv.Kind = KindForParticipants(1)
			conv.ID = SourceWhatsApp + ":" + sess.contactJID
			conv.Handle = sess.contactJID
			conv.Participants = []string{sess.contactJID}
		case sess.sessionType == WhatsAppSessionGroup:
			conv.Kind = KindGroup
			conv.ID = fmt.Sprintf("%s:session:%d", SourceWhatsApp, sess.pk)
			conv.Handle = sess.contactJID
			conv.Title = sess.partnerName
			conv.Participants = sess.members
		default:
			conv.Kind = KindUnknown
			conv.ID = fmt.Sprintf("%s:session:%d", SourceWhatsApp, sess.pk)
			conv.Handle = sess.contactJID
			conv.Title = sess.partnerName
		}
		convIDs[sess.pk] = conv.ID
		kinds[sess.pk] = conv.Kind
		if _, ok := convs[conv.ID]; !ok {
			convs[conv.ID] = conv
			order = append(order, conv.ID)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT CAST(ZMESSAGEDATE AS INTEGER) + 978307200, COALESCE(ZISFROMME, 0), ZTEXT,
		       COALESCE(ZCHATSESSION, 0)
		FROM ZWAMESSAGE
		WHERE ZMESSAGEDATE + 978307200 > ?
		ORDER BY Z_PK
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	ds := &Dataset{}
	used := make(map[string]bool)
	for rows.Next() {
		var (
			ts, fromMe, session int64
			text                sql.NullString
		)
		if err := rows.Scan(&ts, &fromMe, &text, &session); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}

		convID, ok := convIDs[session]
		if !ok {
			// Messages whose session row is gone still count as activity.
			convID = fmt.Sprintf("%s:session:%d", SourceWhatsApp, session)
			if _, exists := convs[convID]; !exists {
				convs[convID] = Conversation{ID: convID, Source: SourceWhatsApp, Kind: KindUnknown}
				order = append(order, convID)
			}
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
			Kind:           kinds[session],
			Text:           text.String,
			Source:         SourceWhatsApp,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	for _, id := range order {
		if used[id] {
			ds.Conversations = append(ds.Conversations, convs[id])
		}
	}

	names, err := s.pushNames(ctx)
	if err != nil {
		return nil, err
	}
	// Push names win; a direct session's partner name fills the gaps.
	for _, sess := range sessions {
		if sess.sessionType != WhatsAppSessionDirect || sess.contactJID == "" || sess.partnerName == "" {
			continue
		}
		if names == nil {
			names = make(map[string]string)
		}
		if _, ok := names[sess.contactJID]; !ok {
			names[sess.contactJID] = sess.partnerName
		}
	}
	ds.Names = names

	return ds, nil
}

// loadSessions reads sessions in Z_PK order with group members attached.
func (s *WhatsAppSource) loadSessions(ctx context.Context) ([]whatsappSession, error) {
	members := make(map[int64][]string)
	hasMembers, err := s.tableExists(ctx, "ZWAGROUPMEMBER")
	if err != nil {
		return nil, err
	}
	if hasMembers {
		rows, err := s.db.QueryContext(ctx, `
			SELECT ZCHATSESSION, ZMEMBERJID
			FROM ZWAGROUPMEMBER
			WHERE ZMEMBERJID IS NOT NULL AND ZCHATSESSION IS NOT NULL
			ORDER BY ZCHATSESSION, Z_PK
		`)
		if err != nil {
			return nil, fmt.Errorf("query group members: %w", err)
		}
		for rows.Next() {
			var session int64
			var jid string
			if err := rows.Scan(&session, &jid); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan group member: %w", err)
			}
			members[session] = append(members[session], jid)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate group members: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT Z_PK, COALESCE(ZCONTACTJID, ''), COALESCE(ZPARTNERNAME, ''), COALESCE(ZSESSIONTYPE, -1)
		FROM ZWACHATSESSION
		ORDER BY Z_PK
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []whatsappSession
	for rows.Next() {
		var sess whatsappSession
		if err := rows.Scan(&sess.pk, &sess.contactJID, &sess.partnerName, &sess.sessionType); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.members = members[sess.pk]
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// pushNames reads the names contacts published for themselves.
func (s *WhatsAppSource) pushNames(ctx context.Context) (map[string]string, error) {
	ok, err := s.tableExists(ctx, "ZWAPROFILEPUSHNAME")
	if err != nil || !ok {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT ZJID, ZPUSHNAME FROM ZWAPROFILEPUSHNAME WHERE ZJID IS NOT NULL AND ZPUSHNAME IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("query push names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var jid, name string
		if err := rows.Scan(&jid, &name); err != nil {
			return nil, fmt.Errorf("scan push name: %w", err)
		}
		if jid != "" && name != "" {
			names[jid] = name
		}
	}
	return names, rows.Err()
}

func (s *WhatsAppSource) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}
