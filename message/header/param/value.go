package param

import (
	"strings"
)

// Value represents a parsed parameterized header field, such as is used in the
// Content-disposition header. A Value object is immutable.
type Value struct {
	v  string
	ps Params
}

// Parse takes a header field body, parses it as a Value and returns it. The
// primary value is a token, or two tokens separated by a slash, and is
// lower-cased, as are parameter names. It fails with a *ParseError if the
// body is not well-formed.
func Parse(body string) (*Value, error) {
	l := &lexer{s: body}
	if !l.skipCFWS() {
		return nil, &ParseError{Value: body, Err: errMalformed}
	}

	v := l.token()
	if v == "" {
		return nil, &ParseError{Value: body, Err: errMalformed}
	}

	if l.consume('/') {
		sub := l.token()
		if sub == "" {
			return nil, &ParseError{Value: body, Err: errMalformed}
		}
		v += "/" + sub
	}

	ps, err := l.params()
	if err != nil {
		return nil, &ParseError{Value: body, Err: err}
	}

	return &Value{strings.ToLower(v), ps}, nil
}

// New creates a new parameterized header field value with the given
// parameters.
func New(v string, ps Params) *Value {
	return &Value{v, ps.Clone()}
}

// Value returns the primary value of the Value. This is the value before the
// first semi-colon.
func (pv *Value) Value() string {
	return pv.v
}

// Disposition is a synonym for Value() and returns the Content-disposition,
// usually either "inline" or "attachment".
func (pv *Value) Disposition() string {
	return pv.v
}

// Parameters returns a copy of the parameters set on this Value.
func (pv *Value) Parameters() Params {
	return pv.ps.Clone()
}

// Parameter returns the value of the parameter with the given name.
func (pv *Value) Parameter(k string) string {
	return pv.ps.Get(k)
}

// Filename returns the value of the "filename" parameter. It is intended for
// use with the Content-disposition header.
func (pv *Value) Filename() string {
	return pv.ps.Get(Filename)
}
