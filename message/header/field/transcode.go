package field

import (
	"mime"
	"strings"

	"github.com/zostay/go-email2dict/message/header/encoding"
)

var wordDecoder = &mime.WordDecoder{
	CharsetReader: encoding.CharsetReader,
}

// Decode transforms a single header field body and looks for MIME word encoded
// field values. When they are found, these are decoded into native unicode.
func Decode(body string) (string, error) {
	if strings.Contains(body, "=?") {
		return wordDecoder.DecodeHeader(body)
	}

	return body, nil
}
