package field

import (
	"bytes"
)

// BadStartError is returned when the header begins with junk text that does not
// appear to be a header. This text is preserved in the error object.
type BadStartError struct {
	BadStart []byte // the text skipped at the start of header
}

// Error returns the error message.
func (err *BadStartError) Error() string {
	return "header starts with text that does not appear to be a header"
}

// Line represents the unparsed content for a complete header field line.
type Line []byte

// Lines represents the unparsed content for zero or more header field
// lines.
type Lines []Line

// ParseLines splits the given input into lines according to the rules we use to
// determine how to break header fields up inside a header. The input bytes are
// expected to include only the header.
//
// This does not follow RFC 5322 precisely. If the first line (or lines) of
// input start with spaces or contain no colons, these lines will be skipped
// in the Lines returned and a BadStartError is returned alongside them.
//
// From then on, this will start a new field on any line that does not start
// with a space and contains a colon. Any other line is a continuation of the
// field before it.
func ParseLines(m, lb []byte) (Lines, error) {
	h := make(Lines, 0, len(m)/80)
	var err *BadStartError
	for _, line := range bytes.SplitAfter(m, lb) {
		if len(line) == 0 || bytes.Equal(line, lb) {
			continue
		}

		if line[0] == '\t' || line[0] == ' ' || !bytes.Contains(line, []byte(":")) {
			if len(h) == 0 {
				if err != nil {
					err.BadStart = append(err.BadStart, line...)
				} else {
					err = &BadStartError{line}
				}
				continue
			}

			h[len(h)-1] = append(h[len(h)-1], line...)
		} else {
			h = append(h, line)
		}
	}

	if err != nil {
		return h, err
	}
	return h, nil
}

// unfold removes the line breaks of folded header lines, leaving the
// whitespace that followed them.
func unfold(f []byte) []byte {
	uf := make([]byte, 0, len(f))
	for _, b := range f {
		if b != '\r' && b != '\n' {
			uf = append(uf, b)
		}
	}
	return uf
}

// Parse will take a single header field line, including any folded continuation
// lines, and construct a header field object from it. If the body contains
// encoded-words that fail to decode, Body() returns the raw body.
func Parse(f Line, lb []byte) *Field {
	rawField := bytes.TrimRight(f, string(lb))

	off := 1
	ix := bytes.IndexByte(rawField, ':')
	if ix < 0 {
		ix = len(rawField)
		off = 0
	}

	name := string(bytes.TrimSpace(unfold(rawField[:ix])))
	rawBody := string(bytes.TrimSpace(unfold(rawField[ix+off:])))

	body := rawBody
	if decBody, err := Decode(rawBody); err == nil {
		body = decBody
	}

	raw := make([]byte, len(rawField))
	copy(raw, rawField)

	return &Field{
		name:    name,
		body:    body,
		rawBody: rawBody,
		raw:     raw,
	}
}
