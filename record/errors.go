package record

import (
	"errors"
	"fmt"

	"github.com/zostay/go-email2dict/message/header"
	"github.com/zostay/go-email2dict/message/header/param"
	"github.com/zostay/go-email2dict/message/walker"
)

// ErrTooDeep is returned by Extract when the parts of a message are nested
// deeper than the limit set by WithMaxDepth.
var ErrTooDeep = errors.New("message parts are nested too deeply")

// CardinalityError is returned when a header field appears a number of times
// its Class does not allow.
type CardinalityError struct {
	Header string // lower-cased header name
	Want   string // description of the allowed count
	Got    int    // number of fields found
}

// Error returns the error message.
func (err *CardinalityError) Error() string {
	return fmt.Sprintf("header %s: expected %s field, found %d", err.Header, err.Want, err.Got)
}

// MalformedHeaderError is returned when the body of a header field cannot be
// interpreted as required by its Class.
type MalformedHeaderError struct {
	Header string // lower-cased header name
	Body   string // raw body of the offending field
	Err    error  // the parse failure
}

// Error returns the error message.
func (err *MalformedHeaderError) Error() string {
	if err.Err == nil {
		return fmt.Sprintf("header %s: malformed value %q", err.Header, err.Body)
	}
	return fmt.Sprintf("header %s: malformed value %q: %v", err.Header, err.Body, err.Err)
}

// Unwrap returns the parse failure.
func (err *MalformedHeaderError) Unwrap() error {
	return err.Err
}

// malformed converts a getter failure into a *MalformedHeaderError.
func malformed(name string, err error) error {
	body := ""
	var ferr *header.FieldError
	if errors.As(err, &ferr) {
		body, err = ferr.Body, ferr.Err
	}

	// a ParseError only repeats the body, so keep what it wraps
	var perr *param.ParseError
	if errors.As(err, &perr) {
		err = perr.Err
	}

	return &MalformedHeaderError{Header: name, Body: body, Err: err}
}

// PartError reports a failure to extract a sub-part. Path holds the index of
// the part at each level of nesting, starting from the top-level message.
type PartError struct {
	Path []int
	Err  error
}

// PathString returns the path as dotted indexes, such as "1.0". This is the
// form accepted by walker.ParsePath.
func (err *PartError) PathString() string {
	return walker.Path(err.Path).String()
}

// Error returns the error message.
func (err *PartError) Error() string {
	return fmt.Sprintf("part %s: %v", err.PathString(), err.Err)
}

// Unwrap returns the failure inside the part.
func (err *PartError) Unwrap() error {
	return err.Err
}
