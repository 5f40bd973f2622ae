// Package field holds the low-level representation of a single header field:
// its name, its unfolded body and the raw bytes it was parsed from.
package field

import "fmt"

// Field is a single parsed header field. The body is stored unfolded, both
// as it appeared (RawBody) and with any RFC 2047 encoded-words decoded (Body).
type Field struct {
	name    string
	body    string
	rawBody string
	raw     []byte
}

// New constructs a field from a name and an unencoded body.
func New(name, body string) *Field {
	return &Field{name: name, body: body, rawBody: body}
}

// Name returns the name of the header field as it appeared.
func (f *Field) Name() string {
	return f.name
}

// Body returns the unfolded value of the header field with encoded-words
// decoded into native unicode.
func (f *Field) Body() string {
	return f.body
}

// RawBody returns the unfolded value of the header field without decoding any
// encoded-words. Structured fields (addresses, dates, parameters) must be
// parsed from this value because decoding first can introduce syntax, such as
// a comma inside a display name.
func (f *Field) RawBody() string {
	return f.rawBody
}

// Raw returns the original bytes of the field, including folding but not the
// final line break. It returns nil for fields built with New.
func (f *Field) Raw() []byte {
	return f.raw
}

// String returns the field as "Name: Body".
func (f *Field) String() string {
	return fmt.Sprintf("%s: %s", f.name, f.body)
}
