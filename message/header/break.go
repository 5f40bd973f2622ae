package header

// Break is the line break detected in a message and used to split its header
// into lines.
type Break string

// The line breaks that might be found in a message. CRLF is what RFC 5322
// requires, but messages stored on disk usually use LF.
const (
	Meh  Break = ""         // no line break found
	CRLF Break = "\x0d\x0a" // \r\n
	LF   Break = "\x0a"     // \n
	CR   Break = "\x0d"     // \r
	LFCR Break = "\x0a\x0d" // \n\r
)

// String returns the break as a string.
func (b Break) String() string {
	return string(b)
}

// Bytes returns the break as a slice of bytes.
func (b Break) Bytes() []byte {
	return []byte(b)
}
