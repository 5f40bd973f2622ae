package header

import (
	"errors"

	"github.com/zostay/go-email2dict/message/header/field"
)

// Parse will parse the given slice of bytes into an email header using the
// given line break. It assumes the entire slice given is the header.
//
// If the header starts with lines that do not look like header fields, those
// lines are skipped and the header is returned along with a
// *field.BadStartError, which callers may treat as a warning.
func Parse(m []byte, lb Break) (*Header, error) {
	lines, err := field.ParseLines(m, lb.Bytes())

	var badStartErr *field.BadStartError // recoverable
	var finalErr error
	if errors.As(err, &badStartErr) {
		finalErr = badStartErr
	} else if err != nil {
		return nil, err
	}

	fields := make([]*field.Field, len(lines))
	for i, line := range lines {
		fields[i] = field.Parse(line, lb.Bytes())
	}

	return New(lb, fields...), finalErr
}
