// Package encoding provides the character set decoding used when reading
// header fields and message bodies. It loads all the encodings provided with:
//
// * golang.org/x/text/encoding/ianaindex
//
// This makes compiled binaries considerably larger, but it lets the rest of
// the module decode pretty much any character set it might encounter in the
// wild wild world of email.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCharset is the character set assumed when none is declared.
const DefaultCharset = "utf-8"

// ErrInvalidBytes is returned by Decode when the input contains bytes that are
// not valid in the named character set.
var ErrInvalidBytes = errors.New("bytes are not valid in the declared charset")

// UnknownCharsetError is returned when the named character set cannot be found
// or is not supported.
type UnknownCharsetError struct {
	Charset string
}

// Error returns the error message.
func (err *UnknownCharsetError) Error() string {
	return fmt.Sprintf("unsupported charset %q", err.Charset)
}

func normalize(charset string) string {
	cs := strings.ToLower(strings.TrimSpace(charset))
	if cs == "" {
		return DefaultCharset
	}
	return cs
}

// lookup returns the x/text encoding for the charset. It returns nil and no
// error for utf-8 and us-ascii, which are handled directly.
func lookup(charset string) (encoding.Encoding, error) {
	switch charset {
	case "utf-8", "utf8":
		return nil, nil
	case "us-ascii", "ascii":
		return nil, nil
	}

	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil || e == nil {
		return nil, &UnknownCharsetError{charset}
	}

	return e, nil
}

// Supported returns true if the named charset can be decoded.
func Supported(charset string) bool {
	_, err := lookup(normalize(charset))
	return err == nil
}

// Decode strictly decodes the bytes from the named charset into a native
// string. An empty charset means DefaultCharset. It fails with
// UnknownCharsetError if the charset is not known and with ErrInvalidBytes if
// the input is not valid utf-8 or us-ascii when those are named.
func Decode(charset string, b []byte) (string, error) {
	cs := normalize(charset)
	e, err := lookup(cs)
	if err != nil {
		return "", err
	}

	switch {
	case e != nil:
		db, err := e.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidBytes, err)
		}
		return string(db), nil
	case cs == "us-ascii" || cs == "ascii":
		for _, c := range b {
			if c > unicode.MaxASCII {
				return "", ErrInvalidBytes
			}
		}
		return string(b), nil
	default:
		if !utf8.Valid(b) {
			return "", ErrInvalidBytes
		}
		return string(b), nil
	}
}

// DecodeLossy decodes the bytes from the named charset and never fails. Bytes
// that cannot be decoded become unicode.ReplacementChar. An unknown charset is
// treated as DefaultCharset.
func DecodeLossy(charset string, b []byte) string {
	cs := normalize(charset)
	e, err := lookup(cs)
	if err != nil {
		cs, e = DefaultCharset, nil
	}

	if e != nil {
		db, err := e.NewDecoder().Bytes(b)
		if err == nil {
			return string(db)
		}
	}

	if cs == "us-ascii" || cs == "ascii" {
		var s strings.Builder
		for _, c := range b {
			if c > unicode.MaxASCII {
				s.WriteRune(unicode.ReplacementChar)
			} else {
				s.WriteByte(c)
			}
		}
		return s.String()
	}

	return strings.ToValidUTF8(string(b), string(unicode.ReplacementChar))
}

// CharsetReader is suitable for use as the CharsetReader of a
// mime.WordDecoder.
func CharsetReader(charset string, r io.Reader) (io.Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	s, err := Decode(charset, b)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader([]byte(s)), nil
}
