package param

import "strings"

// isTSpecial reports whether c is in 'tspecials' as defined by RFC 1521 and
// RFC 2045.
func isTSpecial(c byte) bool {
	return strings.IndexByte(`()<>@,;:\"/[]?=`, c) >= 0
}

// isTokenChar reports whether c is a 'token' character as defined by RFC 1521
// and RFC 2045.
func isTokenChar(c byte) bool {
	// token := 1*<any (US-ASCII) CHAR except SPACE, CTLs,
	//             or tspecials>
	return c > 0x20 && c < 0x7f && !isTSpecial(c)
}

// isToken reports whether s is a 'token' as defined by RFC 1521 and RFC 2045.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// lexer scans a structured header field body.
type lexer struct {
	s   string
	pos int
}

func (l *lexer) done() bool {
	return l.pos >= len(l.s)
}

func (l *lexer) peek() byte {
	if l.done() {
		return 0
	}
	return l.s[l.pos]
}

// consume skips past c if it is the next byte and reports whether it did.
func (l *lexer) consume(c byte) bool {
	if l.peek() != c || l.done() {
		return false
	}
	l.pos++
	return true
}

// skipCFWS skips folding whitespace and RFC 822 comments, which may nest. It
// returns false if a comment is never closed.
func (l *lexer) skipCFWS() bool {
	depth := 0
	for !l.done() {
		c := l.s[l.pos]
		switch {
		case depth > 0 && c == '\\':
			l.pos++
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case depth > 0:
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
		default:
			return true
		}
		l.pos++
	}
	return depth == 0
}

// token consumes and returns the longest run of token characters.
func (l *lexer) token() string {
	start := l.pos
	for !l.done() && isTokenChar(l.s[l.pos]) {
		l.pos++
	}
	return l.s[start:l.pos]
}

// quoted consumes a quoted-string, which must start at the current position,
// and returns its content with the quoting removed. It returns false if the
// closing quote is missing.
func (l *lexer) quoted() (string, bool) {
	if !l.consume('"') {
		return "", false
	}

	var b strings.Builder
	for !l.done() {
		c := l.s[l.pos]
		l.pos++
		switch c {
		case '"':
			return b.String(), true
		case '\\':
			if l.done() {
				return "", false
			}
			b.WriteByte(l.s[l.pos])
			l.pos++
		default:
			b.WriteByte(c)
		}
	}

	return "", false
}

// quote writes v as an RFC 2045 quoted-string, escaping backslashes and
// double quotes. It returns false if v contains a control character other
// than tab, which cannot be represented safely in a header.
func quote(b *strings.Builder, v string) bool {
	b.WriteByte('"')
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
		case c == 0x7f || (c < 0x20 && c != '\t'):
			return false
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return true
}
