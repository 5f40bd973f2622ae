package message

import (
	"io"

	"github.com/zostay/go-email2dict/message/header"
)

// Part is an interface define the parts of a Multipart. Each Part is
// either a branch or a leaf.
//
// A branch Part is one that has sub-parts. In this case, the IsMultipart()
// method will return true. The GetParts() method is available, but the
// GetReader() will return nil.
//
// A leaf Part is one that contains content. In this case, the IsMultipart()
// method will return false. The GetParts() method returns nil on a leaf
// Part. However, the GetReader() method will return a reader for reading
// the content of the part.
//
// It should be noted that it is possible for a Part to contain content that
// is a multipart MIME message when IsMultipart() returns false, for example
// when parsing stopped at the maximum depth. This is perfectly legal.
type Part interface {
	// IsMultipart will return true if this Part is a branch with nested
	// parts. You may call the GetParts() method to process the parts only if
	// this returns true. If it returns false, this Part is a leaf and it
	// has no sub-parts. You may call GetReader() only when this method returns
	// false.
	IsMultipart() bool

	// IsEncoded will return true if the bytes read from the io.Reader returned
	// by GetReader() still have any Content-transfer-encoding applied. If it
	// returns false, then the bytes returned from that io.Reader will have had
	// any Content-transfer-encoding decoded first. This does not indicate
	// whether any Content-transfer-encoding header is present or whether the
	// encoding made any changes to the bytes.
	//
	// This method must return false if IsMultipart() returns true. As transfer
	// encodings cannot be applied to parts with sub-parts, this method makes
	// no sense in that circumstance anyway.
	IsEncoded() bool

	// GetHeader is available on all Part objects.
	GetHeader() *header.Header

	// GetReader provides the content of the message, but only if IsMultipart()
	// returns false. This must return nil if IsMultipart() returns true.
	GetReader() io.Reader

	// GetParts provides the content of a multipart message with sub-parts. This
	// must return nil if IsMultipart() is false.
	GetParts() []Part

	// GetPreamble returns the text before the first boundary of a multipart
	// message, not including the line break that starts the boundary. It
	// returns nil for leaf parts and when there was no initial boundary.
	GetPreamble() []byte

	// GetEpilogue returns the text after the final boundary line of a
	// multipart message. It returns nil for leaf parts and when there was no
	// final boundary.
	GetEpilogue() []byte
}

// Generic is just an alias for Part, which is intended to convey
// additional semantics:
//
// 1. The message returned is not necessarily a sub-part of a message.
//
// 2. The returned message is guaranteed to either be a *Opaque or a
// *Multipart. Therefore, it is safe to use this in a type-switch
// and only look for either of those two objects.
type Generic = Part

// Multipart is a message with sub-parts. It is either a multipart/* MIME
// message or a message/rfc822 part holding an encapsulated message as its only
// part.
type Multipart struct {
	// Header is the header for the message.
	header.Header

	// preamble and epilogue hold the text around the boundaries, if any.
	preamble, epilogue []byte

	// parts holds this layer's parts
	parts []Part
}

// NewMultipart returns a branch part with the given header and sub-parts.
func NewMultipart(h *header.Header, parts ...Part) *Multipart {
	return &Multipart{
		Header: *h,
		parts:  parts,
	}
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool {
	return true
}

// IsEncoded always returns false.
func (mm *Multipart) IsEncoded() bool {
	return false
}

// GetHeader returns the header for the message.
func (mm *Multipart) GetHeader() *header.Header {
	return &mm.Header
}

// GetReader always returns nil.
func (mm *Multipart) GetReader() io.Reader {
	return nil
}

// GetParts returns the sub-parts of this message or nil if there aren't any.
func (mm *Multipart) GetParts() []Part {
	return mm.parts
}

// GetPreamble returns the text before the first boundary.
func (mm *Multipart) GetPreamble() []byte {
	return mm.preamble
}

// GetEpilogue returns the text after the final boundary.
func (mm *Multipart) GetEpilogue() []byte {
	return mm.epilogue
}
