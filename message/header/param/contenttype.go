package param

import (
	"encoding/json"
	"strings"
)

// ContentType is the structured value of a Content-type header: a main type,
// a subtype and an ordered set of parameters. A ContentType is immutable.
//
// Parsing lower-cases the types and parameter names. Formatting writes them as
// they are stored and always quotes parameter values. Extended (RFC 2231)
// parameters are decoded on parse but never re-encoded on format, so a value
// read from the extended form comes back out as a plain quoted-string.
type ContentType struct {
	maintype string
	subtype  string
	params   Params
}

// NewContentType builds a ContentType directly. No validation is performed
// here; Format reports a *FormatError for values that cannot be written.
func NewContentType(maintype, subtype string, ps Params) *ContentType {
	return &ContentType{maintype, subtype, ps.Clone()}
}

// ParseContentType parses the body of a Content-type header, including its
// parameters. It fails with a *ParseError carrying the input when the main
// type or subtype is missing or empty, when anything other than a parameter
// list follows the subtype, when a parameter is malformed or when an extended
// parameter cannot be decoded.
func ParseContentType(raw string) (*ContentType, error) {
	l := &lexer{s: raw}
	fail := func(err error) (*ContentType, error) {
		return nil, &ParseError{Value: raw, Err: err}
	}

	if !l.skipCFWS() {
		return fail(errMalformed)
	}

	mt := l.token()
	if mt == "" {
		return fail(errMalformed)
	}

	if !l.skipCFWS() || !l.consume('/') || !l.skipCFWS() {
		return fail(errMalformed)
	}

	st := l.token()
	if st == "" {
		return fail(errMalformed)
	}

	ps, err := l.params()
	if err != nil {
		return fail(err)
	}

	return &ContentType{strings.ToLower(mt), strings.ToLower(st), ps}, nil
}

// Maintype returns the main type, e.g., "text" for "text/plain".
func (ct *ContentType) Maintype() string {
	return ct.maintype
}

// Subtype returns the subtype, e.g., "plain" for "text/plain".
func (ct *ContentType) Subtype() string {
	return ct.subtype
}

// MediaType returns the main type and subtype joined by a slash.
func (ct *ContentType) MediaType() string {
	return ct.maintype + "/" + ct.subtype
}

// Params returns a copy of the parameters.
func (ct *ContentType) Params() Params {
	return ct.params.Clone()
}

// Param returns the named parameter or an empty string.
func (ct *ContentType) Param(name string) string {
	return ct.params.Get(name)
}

// Charset returns the value of the "charset" parameter.
func (ct *ContentType) Charset() string {
	return ct.params.Get(Charset)
}

// Boundary returns the value of the "boundary" parameter.
func (ct *ContentType) Boundary() string {
	return ct.params.Get(Boundary)
}

// Format writes the ContentType as a header body: the media type followed by
// `; name="value"` for each parameter in order.
//
// It fails with a *FormatError carrying the media type when the main type or
// subtype is empty or contains a slash. It also fails, carrying the output
// produced so far, when a parameter name is not a plain token or a value
// contains a control character.
func (ct *ContentType) Format() (string, error) {
	mt := ct.MediaType()
	if ct.maintype == "" || ct.subtype == "" ||
		strings.Contains(ct.maintype, "/") || strings.Contains(ct.subtype, "/") {
		return "", &FormatError{mt}
	}

	var b strings.Builder
	b.WriteString(mt)
	for _, p := range ct.params {
		b.WriteString("; ")
		b.WriteString(p.Name)
		if !isToken(p.Name) || strings.Contains(p.Name, "*") {
			return "", &FormatError{b.String()}
		}

		b.WriteByte('=')
		if !quote(&b, p.Value) {
			return "", &FormatError{b.String()}
		}
	}

	return b.String(), nil
}

// String returns the output of Format or an empty string if the ContentType
// cannot be formatted.
func (ct *ContentType) String() string {
	s, err := ct.Format()
	if err != nil {
		return ""
	}
	return s
}

// Equal reports whether two content types are the same. Types and parameter
// names compare case-insensitively, parameter values exactly, and parameter
// order is ignored.
func (ct *ContentType) Equal(other *ContentType) bool {
	if ct == nil || other == nil {
		return ct == other
	}

	return strings.EqualFold(ct.maintype, other.maintype) &&
		strings.EqualFold(ct.subtype, other.subtype) &&
		ct.params.equal(other.params)
}

// MarshalJSON writes the ContentType as an object with maintype, subtype and
// params keys.
func (ct *ContentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Maintype string `json:"maintype"`
		Subtype  string `json:"subtype"`
		Params   Params `json:"params"`
	}{ct.maintype, ct.subtype, ct.params})
}
