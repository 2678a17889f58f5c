// Package sample writes synthetic Apple Messages and WhatsApp stores so the
// tool can be tried without access to real ones.
package sample

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/yaml.v3"

	"github.com/runnerr0/textwrapped/internal/storage"
)

// File names written into Options.Dir.
const (
	IMessageFile = "chat.db"
	WhatsAppFile = "ChatStorage.sqlite"
	ContactsFile = "contacts.yaml"
)

// ErrExists is returned when a target file already exists and Force is off.
var ErrExists = errors.New("sample file already exists")

// Options controls generation.
type Options struct {
	Dir   string
	Seed  int64
	Year  int
	Force bool
	// Now caps generation for the current year. Defaults to time.Now.
	Now func() time.Time
}

// Result describes what was written.
type Result struct {
	IMessagePath     string `json:"imessage_path"`
	WhatsAppPath     string `json:"whatsapp_path"`
	ContactsPath     string `json:"contacts_path"`
	IMessageMessages int    `json:"imessage_messages"`
	WhatsAppMessages int    `json:"whatsapp_messages"`
}

// style shapes one synthetic relationship.
type style int

const (
	styleSteady style = iota
	styleFan
	styleSimp
	styleGhost
	styleHeating
	styleNightOwl
)

type persona struct {
	name   string
	handle string
	style  style
}

var imessagePeople = []persona{
	{"Maya Chen", "+15550100001", styleSteady},
	{"Jordan Price", "+15550100002", styleFan},
	{"Sam Okafor", "+15550100003", styleSimp},
	{"Riley Novak", "+15550100004", styleGhost},
	{"Avery Brooks", "+15550100005", styleHeating},
	{"Theo Marsh", "+15550100006", styleNightOwl},
	{"Priya Raman", "priya.raman@example.com", styleSteady},
	{"Mom", "+15550100008", styleSteady},
}

var whatsappPeople = []persona{
	{"Lucía Ortega", "34612345678@s.whatsapp.net", styleSteady},
	{"Kenji Watanabe", "819010000002@s.whatsapp.net", styleFan},
	{"Ana Souza", "5511900000003@s.whatsapp.net", styleHeating},
	{"Oskar Lind", "46700000004@s.whatsapp.net", styleGhost},
}

var phrases = []string{
	"hey", "lol", "omw", "did you see that?", "ok sounds good", "haha no way",
	"running late 😭", "that's so good 😂", "🔥🔥🔥", "love you ❤️", "wait what",
	"can you call me later", "dinner tonight?", "💀 I can't", "thank you 🙏",
	"👀 tell me everything", "100% 💯", "see you soon ✨", "nah", "bet",
	`Loved "see you soon ✨"`, `Liked "dinner tonight?"`, `Laughed at "lol"`,
}

// Generate writes both stores and a contacts file into opts.Dir.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	if opts.Year == 0 {
		opts.Year = now().Year()
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create sample directory: %w", err)
	}

	res := &Result{
		IMessagePath: filepath.Join(opts.Dir, IMessageFile),
		WhatsAppPath: filepath.Join(opts.Dir, WhatsAppFile),
		ContactsPath: filepath.Join(opts.Dir, ContactsFile),
	}
	for _, p := range []string{res.IMessagePath, res.WhatsAppPath, res.ContactsPath} {
		if err := prepareTarget(p, opts.Force); err != nil {
			return nil, err
		}
	}

	g := &generator{
		rng:   rand.New(rand.NewSource(opts.Seed)),
		start: time.Date(opts.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(opts.Year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
		mid:   time.Date(opts.Year, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	if n := now().UTC(); n.Before(g.end) && n.After(g.start) {
		g.end = n
	}

	var err error
	if res.IMessageMessages, err = g.writeIMessage(ctx, res.IMessagePath); err != nil {
		return nil, err
	}
	if res.WhatsAppMessages, err = g.writeWhatsApp(ctx, res.WhatsAppPath); err != nil {
		return nil, err
	}
	if err := writeContacts(res.ContactsPath); err != nil {
		return nil, err
	}
	return res, nil
}

func prepareTarget(path string, force bool) error {
	_, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("stat %s: %w", path, err)
	case !force:
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func openTarget(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_sync=OFF&_journal=MEMORY")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// writeContacts stores the Apple Messages names, which chat.db itself lacks.
func writeContacts(path string) error {
	names := make(map[string]string, len(imessagePeople))
	for _, p := range imessagePeople {
		names[p.handle] = p.name
	}
	data, err := yaml.Marshal(names)
	if err != nil {
		return fmt.Errorf("marshal contacts: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write contacts: %w", err)
	}
	return nil
}

type generator struct {
	rng             *rand.Rand
	start, mid, end time.Time
}

// event is one synthetic message before it is written.
type event struct {
	at     time.Time
	fromMe bool
	text   string
}

func (g *generator) writeIMessage(ctx context.Context, path string) (int, error) {
	db, err := openTarget(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	w, err := storage.NewIMessageWriter(db)
	if err != nil {
		return 0, err
	}
	defer w.Close()

	handles := make(map[string]int64)
	total := 0
	for _, p := range imessagePeople {
		h, err := w.AddHandle(ctx, p.handle)
		if err != nil {
			return 0, err
		}
		handles[p.handle] = h
		chat, err := w.AddChat(ctx, "", h)
		if err != nil {
			return 0, err
		}
		for _, ev := range g.conversation(p.style) {
			if _, err := w.AddMessage(ctx, chat, h, ev.at.Unix(), ev.fromMe, ev.text); err != nil {
				return 0, err
			}
			total++
		}
	}

	// One titled group, one untitled, and a short-code sender.
	groups := []struct {
		title   string
		members []string
	}{
		{"Roommates 🏠", []string{"+15550100001", "+15550100003", "+15550100006"}},
		{"", []string{"+15550100008", "priya.raman@example.com", "+15550100004", "+15550100002"}},
	}
	for _, grp := range groups {
		ids := make([]int64, len(grp.members))
		for i, m := range grp.members {
			ids[i] = handles[m]
		}
		chat, err := w.AddChat(ctx, grp.title, ids...)
		if err != nil {
			return 0, err
		}
		for _, ev := range g.group(len(ids)) {
			sender := ids[g.rng.Intn(len(ids))]
			if ev.fromMe {
				sender = 0
			}
			if _, err := w.AddMessage(ctx, chat, sender, ev.at.Unix(), ev.fromMe, ev.text); err != nil {
				return 0, err
			}
			total++
		}
	}

	code, err := w.AddHandle(ctx, "72975")
	if err != nil {
		return 0, err
	}
	chat, err := w.AddChat(ctx, "", code)
	if err != nil {
		return 0, err
	}
	for at := g.start.AddDate(0, 0, 3).Add(10 * time.Hour); at.Before(g.end); at = at.AddDate(0, 0, 9) {
		if _, err := w.AddMessage(ctx, chat, code, at.Unix(), false, "Your verification code is 123456"); err != nil {
			return 0, err
		}
		total++
	}
	return total, nil
}

func (g *generator) writeWhatsApp(ctx context.Context, path string) (int, error) {
	db, err := openTarget(path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	w, err := storage.NewWhatsAppWriter(db)
	if err != nil {
		return 0, err
	}
	defer w.Close()

	total := 0
	for _, p := range whatsappPeople {
		if err := w.AddPushName(ctx, p.handle, p.name); err != nil {
			return 0, err
		}
		sess, err := w.AddSession(ctx, p.handle, p.name, storage.WhatsAppSessionDirect)
		if err != nil {
			return 0, err
		}
		for _, ev := range g.conversation(p.style) {
			if _, err := w.AddMessage(ctx, sess, ev.at.Unix(), ev.fromMe, ev.text); err != nil {
				return 0, err
			}
			total++
		}
	}

	grp, err := w.AddSession(ctx, "120363000000000001@g.us", "Futbol los martes ⚽", storage.WhatsAppSessionGroup)
	if err != nil {
		return 0, err
	}
	for _, p := range whatsappPeople[:3] {
		if err := w.AddMember(ctx, grp, p.handle, p.name); err != nil {
			return 0, err
		}
	}
	for _, ev := range g.group(3) {
		if _, err := w.AddMessage(ctx, grp, ev.at.Unix(), ev.fromMe, ev.text); err != nil {
			return 0, err
		}
		total++
	}

	// Status broadcasts are neither one-to-one nor group.
	bc, err := w.AddSession(ctx, "status@broadcast", "", storage.WhatsAppSessionBroadcast)
	if err != nil {
		return 0, err
	}
	for at := g.start.AddDate(0, 0, 5).Add(20 * time.Hour); at.Before(g.end); at = at.AddDate(0, 0, 30) {
		if _, err := w.AddMessage(ctx, bc, at.Unix(), true, "new status"); err != nil {
			return 0, err
		}
		total++
	}
	return total, nil
}

// conversation produces a year of one-to-one messages shaped by s.
func (g *generator) conversation(s style) []event {
	var out []event
	for day := g.start; day.Before(g.end); day = day.AddDate(0, 0, 1) {
		firstHalf := day.Before(g.mid)

		chance, sentShare := 0.35, 0.5
		switch s {
		case styleFan:
			chance, sentShare = 0.6, 0.1
		case styleSimp:
			chance, sentShare = 0.6, 0.9
		case styleGhost:
			if !firstHalf {
				continue
			}
			chance = 0.5
		case styleHeating:
			chance = 0.15
			if !firstHalf {
				chance = 0.8
			}
		}
		if g.rng.Float64() > chance {
			continue
		}

		hour := 9 + g.rng.Intn(14)
		if s == styleNightOwl && g.rng.Float64() < 0.7 {
			hour = g.rng.Intn(4)
		}
		at := day.Add(time.Duration(hour)*time.Hour + time.Duration(1+g.rng.Intn(59))*time.Minute)
		burst := 2 + g.rng.Intn(8)
		for i := 0; i < burst && at.Before(g.end); i++ {
			out = append(out, event{
				at:     at,
				fromMe: g.rng.Float64() < sentShare,
				text:   phrases[g.rng.Intn(len(phrases))],
			})
			at = at.Add(time.Duration(15+g.rng.Intn(900)) * time.Second)
		}
	}
	return out
}

// group produces a year of group chatter among n members plus the user.
func (g *generator) group(n int) []event {
	var out []event
	for day := g.start; day.Before(g.end); day = day.AddDate(0, 0, 1) {
		if g.rng.Float64() > 0.25 {
			continue
		}
		at := day.Add(time.Duration(10+g.rng.Intn(12))*time.Hour + time.Duration(1+g.rng.Intn(59))*time.Minute)
		burst := 3 + g.rng.Intn(10)
		for i := 0; i < burst && at.Before(g.end); i++ {
			out = append(out, event{
				at:     at,
				fromMe: g.rng.Intn(n+1) == 0,
				text:   phrases[g.rng.Intn(len(phrases))],
			})
			at = at.Add(time.Duration(5+g.rng.Intn(300)) * time.Second)
		}
	}
	return out
}
