package header

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/zostay/go-addr/pkg/addr"

	"github.com/zostay/go-email2dict/message/header/field"
)

// ErrNotSingleAddress is returned by ParseAddress when the string does not
// hold exactly one mailbox.
var ErrNotSingleAddress = errors.New("expected exactly one address")

// Mailbox is a single address with its display name. Encoded-words in the
// display name have been decoded.
type Mailbox struct {
	DisplayName string
	Address     string
}

// String formats the mailbox for use in a header field.
func (m Mailbox) String() string {
	if m.DisplayName == "" {
		return m.Address
	}
	return formatPhrase(m.DisplayName) + " <" + m.Address + ">"
}

// AddressGroup is one group of an address list. Mailboxes that are not part
// of a named group are gathered into a group with Grouped set to false.
type AddressGroup struct {
	DisplayName string
	Grouped     bool
	Mailboxes   []Mailbox
}

// String formats the group for use in a header field.
func (g AddressGroup) String() string {
	mbs := make([]string, len(g.Mailboxes))
	for i, mb := range g.Mailboxes {
		mbs[i] = mb.String()
	}

	if !g.Grouped {
		return strings.Join(mbs, ", ")
	}
	return formatPhrase(g.DisplayName) + ": " + strings.Join(mbs, ", ") + ";"
}

// decodeName decodes any encoded-words in a display name, keeping the name
// as-is when decoding fails.
func decodeName(s string) string {
	if d, err := field.Decode(s); err == nil {
		return d
	}
	return s
}

func newMailbox(a addr.Address) Mailbox {
	return Mailbox{
		DisplayName: decodeName(a.DisplayName()),
		Address:     a.Address(),
	}
}

// fromAddressList converts a parsed address list into groups. Runs of
// ungrouped mailboxes share a single ungrouped group.
func fromAddressList(al addr.AddressList) []AddressGroup {
	gs := make([]AddressGroup, 0, len(al))
	for _, a := range al {
		switch v := a.(type) {
		case *addr.Group:
			mbl := v.MailboxList()
			g := AddressGroup{
				DisplayName: decodeName(v.DisplayName()),
				Grouped:     true,
				Mailboxes:   make([]Mailbox, len(mbl)),
			}
			for i, mb := range mbl {
				g.Mailboxes[i] = newMailbox(mb)
			}
			gs = append(gs, g)
		default:
			if n := len(gs); n > 0 && !gs[n-1].Grouped {
				gs[n-1].Mailboxes = append(gs[n-1].Mailboxes, newMailbox(v))
				continue
			}
			gs = append(gs, AddressGroup{Mailboxes: []Mailbox{newMailbox(v)}})
		}
	}
	return gs
}

// errBareGroupMember is returned by parseStrict when go-addr cannot build a
// group whose members are written without angle brackets.
var errBareGroupMember = errors.New("group member is a bare addr-spec")

// parseStrict parses the body with go-addr. Groups holding a bare addr-spec,
// such as "Team: b@example.com;", make go-addr panic, so the panic is turned
// into errBareGroupMember.
func parseStrict(body string) (gs []AddressGroup, err error) {
	defer func() {
		if r := recover(); r != nil {
			gs, err = nil, errBareGroupMember
		}
	}()

	al, err := addr.ParseEmailAddressList(body)
	if err != nil {
		return nil, err
	}
	return fromAddressList(al), nil
}

// ParseAddressGroups parses a raw address list field body into its groups,
// in source order. It will attempt a strict parse of the email address list.
// However, if that fails, an extremely lenient parsing will be attempted,
// which might result in results that can only be described as "weird" in the
// effort to provide some kind of result. It is so forgiving, it will return
// some kind of value for any input.
func ParseAddressGroups(body string) []AddressGroup {
	gs, err := parseStrict(body)
	if err != nil {
		return parseEmailAddressList(body)
	}
	return gs
}

// ParseAddress strictly parses a string holding exactly one mailbox. A group
// holding a single mailbox is accepted and the group is discarded.
func ParseAddress(s string) (Mailbox, error) {
	gs, err := parseStrict(s)
	switch {
	case errors.Is(err, errBareGroupMember):
		gs = parseEmailAddressList(s)
	case err != nil:
		return Mailbox{}, fmt.Errorf("address %q: %w", s, err)
	}

	var mbs []Mailbox
	for _, g := range gs {
		mbs = append(mbs, g.Mailboxes...)
	}

	if len(mbs) != 1 {
		return Mailbox{}, fmt.Errorf("address %q: %w", s, ErrNotSingleAddress)
	}
	return mbs[0], nil
}

// FormatAddresses formats the groups as the body of an address list field,
// such as To or Cc.
func FormatAddresses(gs ...AddressGroup) string {
	parts := make([]string, 0, len(gs))
	for _, g := range gs {
		if s := g.String(); s != "" || g.Grouped {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// formatPhrase returns a display name that is safe to use in an address
// field. Names with specials are quoted and names with non-ASCII characters
// are written as an encoded-word.
func formatPhrase(s string) string {
	for _, c := range s {
		if c > 0x7e {
			return mime.QEncoding.Encode("utf-8", s)
		}
	}

	if strings.ContainsAny(s, "()<>[]:;@\\,.\"") {
		return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
	}
	return s
}

// phraseScanner tracks whether a position in an address list is inside a
// quoted string or a comment.
type phraseScanner struct {
	quoted  bool
	escaped bool
	comment int
}

// top returns true outside of quoted strings and comments.
func (ps *phraseScanner) top() bool {
	return !ps.quoted && ps.comment == 0
}

// next moves the scanner past c.
func (ps *phraseScanner) next(c rune) {
	switch {
	case ps.escaped:
		ps.escaped = false
	case c == '\\' && (ps.quoted || ps.comment > 0):
		ps.escaped = true
	case ps.quoted:
		ps.quoted = c != '"'
	case ps.comment > 0 && c == '(':
		ps.comment++
	case ps.comment > 0 && c == ')':
		ps.comment--
	case ps.comment > 0:
	case c == '"':
		ps.quoted = true
	case c == '(':
		ps.comment++
	}
}

// stripComments removes the comments from s.
func stripComments(s string) string {
	var (
		ps    phraseScanner
		clean strings.Builder
	)
	for _, c := range s {
		inComment := ps.comment > 0
		ps.next(c)
		if inComment || ps.comment > 0 {
			continue
		}
		clean.WriteRune(c)
	}
	return clean.String()
}

// unquotePhrase removes the quotes around a quoted display name.
func unquotePhrase(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}

	var b strings.Builder
	escaped := false
	for _, c := range s[1 : len(s)-1] {
		if c == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(c)
	}
	return b.String()
}

// lenientMailbox treats the text inside angle brackets, or else the last
// word, as the address and everything before it as the display name.
func lenientMailbox(s string) (Mailbox, bool) {
	s = strings.TrimSpace(stripComments(s))

	var dn, email string
	if i := strings.LastIndexByte(s, '<'); i >= 0 {
		dn, email = s[:i], strings.TrimSuffix(s[i+1:], ">")
	} else if parts := strings.Fields(s); len(parts) > 1 {
		dn = strings.Join(parts[:len(parts)-1], " ")
		email = parts[len(parts)-1]
	} else {
		email = s
	}

	email = strings.TrimSpace(email)
	if email == "" {
		return Mailbox{}, false
	}

	return Mailbox{
		DisplayName: decodeName(unquotePhrase(dn)),
		Address:     email,
	}, true
}

// parseEmailAddressList is a fallback method for email address parsing. The
// parser in github.com/zostay/go-addr is a strict parser, which is useful for
// getting good accurate parsing of email addresses, especially for validating
// data entry. However, when working with the mess that is the Internet, you
// want to get something useful (strict out/liberal in), even if its technically
// wrong, well, this method can be used to clean up the mess.
//
// It works as follows:
//
// 1. Split the string on commas, colons, and semicolons found outside of
// quoted strings and comments.
// 2. A colon ends the display name of a group and the next semicolon ends
// the group.
// 3. The comments are stripped from each mailbox.
// 4. The text in angle brackets is the email address and the words before it
// are the display name. Without angle brackets, the last word is the address.
func parseEmailAddressList(v string) []AddressGroup {
	var (
		gs      []AddressGroup
		group   *AddressGroup
		cur     strings.Builder
		scanner phraseScanner
	)

	addMailbox := func() {
		mb, ok := lenientMailbox(cur.String())
		cur.Reset()
		switch {
		case !ok:
		case group != nil:
			group.Mailboxes = append(group.Mailboxes, mb)
		case len(gs) > 0 && !gs[len(gs)-1].Grouped:
			gs[len(gs)-1].Mailboxes = append(gs[len(gs)-1].Mailboxes, mb)
		default:
			gs = append(gs, AddressGroup{Mailboxes: []Mailbox{mb}})
		}
	}

	endGroup := func() {
		if group != nil {
			gs = append(gs, *group)
			group = nil
		}
	}

	for _, c := range v {
		if !scanner.top() || !strings.ContainsRune(",:;", c) {
			cur.WriteRune(c)
			scanner.next(c)
			continue
		}

		switch {
		case c == ',':
			addMailbox()
		case c == ':' && group == nil:
			name := unquotePhrase(stripComments(cur.String()))
			cur.Reset()
			group = &AddressGroup{
				DisplayName: decodeName(name),
				Grouped:     true,
				Mailboxes:   []Mailbox{},
			}
		case c == ':':
			cur.WriteRune(c)
		default:
			addMailbox()
			endGroup()
		}
	}

	addMailbox()
	endGroup()

	return gs
}
