package param

// ParseError is returned when a header value cannot be parsed. The error
// message is exactly the value that failed to parse.
type ParseError struct {
	Value string // the raw input
	Err   error  // the underlying cause, if any
}

// Error returns the value that failed to parse.
func (err *ParseError) Error() string {
	return err.Value
}

// Unwrap returns the underlying cause.
func (err *ParseError) Unwrap() error {
	return err.Err
}

// FormatError is returned when a ContentType cannot be written out. The error
// message is exactly the content type string that was being produced.
type FormatError struct {
	Value string
}

// Error returns the attempted output.
func (err *FormatError) Error() string {
	return err.Value
}
