package message

import (
	"io"

	"github.com/zostay/go-email2dict/message/header"
)

// Opaque is the base-level email message interface. It is simply a header
// and a message body, very similar to the net/mail message implementation.
type Opaque struct {
	// Header will contain the header of the message. A top-level message must
	// have several headers to be correct. A message part should have one or
	// more headers as well.
	header.Header

	// Reader will contain the body content of the message. If the content is
	// zero bytes long, then Reader should be set to nil.
	io.Reader

	// encoded tracks whether the body still has the content-transfer-encoding
	// applied. Parsing leaves the encoding in place unless the
	// DecodeTransferEncoding() option is given.
	encoded bool
}

// NewOpaque returns a leaf part with the given header and body. The body is
// taken to be still transfer encoded.
func NewOpaque(h *header.Header, r io.Reader) *Opaque {
	return &Opaque{
		Header:  *h,
		Reader:  r,
		encoded: true,
	}
}

// IsMultipart always returns false.
func (m *Opaque) IsMultipart() bool {
	return false
}

// IsEncoded returns true if the Content-transfer-encoding has not been decoded
// for the bytes returned by the associated io.Reader. It will return false if
// that decoding has been performed.
//
// Be aware that a true value here does not mean the bytes need any
// transformation. If the Content-transfer-encoding is set to something like
// "8bit", decoding returns the bytes as-is.
func (m *Opaque) IsEncoded() bool {
	return m.encoded
}

// GetHeader returns the header for the message.
func (m *Opaque) GetHeader() *header.Header {
	return &m.Header
}

// GetReader returns the reader containing the body of the message. It returns
// nil when the message has no body.
func (m *Opaque) GetReader() io.Reader {
	return m.Reader
}

// GetParts always returns nil.
func (m *Opaque) GetParts() []Part {
	return nil
}

// GetPreamble always returns nil.
func (m *Opaque) GetPreamble() []byte {
	return nil
}

// GetEpilogue always returns nil.
func (m *Opaque) GetEpilogue() []byte {
	return nil
}
