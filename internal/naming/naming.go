// Package naming turns conversation handles into display names.
package naming

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnnamedGroup is used for a group with neither a title nor participants.
const UnnamedGroup = "Unnamed Group"

// Resolver maps a handle (phone number, email or WhatsApp JID) to a name.
type Resolver interface {
	Resolve(handle string) string
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(handle string) string

func (f ResolverFunc) Resolve(handle string) string { return f(handle) }

// Identity returns handles unchanged.
var Identity Resolver = ResolverFunc(func(h string) string { return h })

// Directory resolves handles against a set of known names. Phone numbers are
// matched on their digits, including the last 10 and last 7 digits, so
// "+1 (555) 000-1111" and "5550001111" find the same entry.
type Directory struct {
	names map[string]string
}

// NewDirectory builds a Directory from handle -> name pairs, adding handles
// in sorted order.
func NewDirectory(names map[string]string) *Directory {
	d := &Directory{names: make(map[string]string)}
	for _, handle := range slices.Sorted(maps.Keys(names)) {
		d.Add(handle, names[handle])
	}
	return d
}

// Add records a name for handle. Existing entries win.
func (d *Directory) Add(handle, name string) {
	handle = strings.TrimSpace(handle)
	name = strings.TrimSpace(name)
	if handle == "" || name == "" {
		return
	}
	for _, key := range lookupKeys(handle) {
		if _, ok := d.names[key]; !ok {
			d.names[key] = name
		}
	}
}

// Len returns the number of lookup keys held.
func (d *Directory) Len() int { return len(d.names) }

// Resolve returns the best display name for handle. Unknown handles fall
// back to a readable form of the handle itself.
func (d *Directory) Resolve(handle string) string {
	if handle == "" {
		return "Unknown"
	}
	if name, ok := d.names[handle]; ok {
		return name
	}

	if isJID(handle) {
		if name, ok := d.lookupDigits(jidUser(handle)); ok {
			return name
		}
		return FormatPhone(jidUser(handle))
	}

	if strings.Contains(handle, "@") {
		if name, ok := d.names[strings.ToLower(handle)]; ok {
			return name
		}
		return handle[:strings.Index(handle, "@")]
	}

	if name, ok := d.lookupDigits(handle); ok {
		return name
	}
	return handle
}

func (d *Directory) lookupDigits(s string) (string, bool) {
	digits := digitsOf(s)
	if digits == "" {
		return "", false
	}
	candidates := []string{digits}
	if len(digits) == 11 && digits[0] == '1' {
		candidates = append(candidates, digits[1:])
	}
	if len(digits) >= 10 {
		candidates = append(candidates, digits[len(digits)-10:])
	}
	if len(digits) >= 7 {
		candidates = append(candidates, digits[len(digits)-7:])
	}
	for _, c := range candidates {
		if name, ok := d.names[c]; ok {
			return name, true
		}
	}
	return "", false
}

// lookupKeys lists every key a handle is indexed under.
func lookupKeys(handle string) []string {
	keys := []string{handle}
	switch {
	case isJID(handle):
		keys = append(keys, phoneKeys(jidUser(handle))...)
	case strings.Contains(handle, "@"):
		keys = append(keys, strings.ToLower(handle))
	default:
		keys = append(keys, phoneKeys(handle)...)
	}
	return keys
}

func phoneKeys(s string) []string {
	digits := digitsOf(s)
	if digits == "" {
		return nil
	}
	keys := []string{digits}
	if len(digits) >= 10 {
		keys = append(keys, digits[len(digits)-10:])
	}
	if len(digits) >= 7 {
		keys = append(keys, digits[len(digits)-7:])
	}
	if len(digits) == 11 && digits[0] == '1' {
		keys = append(keys, digits[1:])
	}
	return keys
}

// FormatPhone renders a bare digit string as a North American number when it
// looks like one, and as +digits otherwise.
func FormatPhone(phone string) string {
	switch {
	case len(phone) == 10:
		return fmt.Sprintf("(%s) %s-%s", phone[:3], phone[3:6], phone[6:])
	case len(phone) == 11 && phone[0] == '1':
		return fmt.Sprintf("+1 (%s) %s-%s", phone[1:4], phone[4:7], phone[7:])
	default:
		return "+" + phone
	}
}

// GroupName returns title when set, otherwise up to two resolved participant
// names followed by "+N others" for the rest.
func GroupName(title string, participants []string, r Resolver) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if len(participants) == 0 {
		return UnnamedGroup
	}
	if r == nil {
		r = Identity
	}

	shown := participants
	if len(shown) > 2 {
		shown = shown[:2]
	}
	names := make([]string, len(shown))
	for i, p := range shown {
		names[i] = r.Resolve(p)
	}

	name := strings.Join(names, ", ")
	switch extra := len(participants) - len(shown); {
	case extra == 1:
		name += " +1 other"
	case extra > 1:
		name += fmt.Sprintf(" +%d others", extra)
	}
	return name
}

// LoadContacts reads a YAML mapping of handle to display name.
func LoadContacts(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contacts file: %w", err)
	}
	var names map[string]string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse contacts file: %w", err)
	}
	return names, nil
}

func isJID(handle string) bool {
	at := strings.LastIndex(handle, "@")
	if at < 0 {
		return false
	}
	switch handle[at+1:] {
	case "s.whatsapp.net", "c.us", "lid":
		return true
	}
	return false
}

func jidUser(jid string) string {
	return jid[:strings.LastIndex(jid, "@")]
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
