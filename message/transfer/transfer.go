package transfer

import (
	"io"
	"strings"

	"github.com/zostay/go-email2dict/message/header"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be decoded from quoted-printable
	Base64          = "base64"           // bytes will be decoded from base64
)

// Decoder returns an io.Reader, which will read from the given io.Reader and
// decode the encoded data back into binary form.
type Decoder func(io.Reader) io.Reader

// Decoders defines the supported Content-transfer-encodings and how to decode
// them. The keys are lower case.
var Decoders = map[string]Decoder{
	None:            NewAsIsDecoder,
	Bit7:            NewAsIsDecoder,
	Bit8:            NewAsIsDecoder,
	Binary:          NewAsIsDecoder,
	QuotedPrintable: NewQuotedPrintableDecoder,
	Base64:          NewBase64Decoder,
}

// ApplyTransferDecoding returns an io.Reader that will modify incoming bytes
// according to the transfer encoding detected from the given header. (Or the
// io.Reader will leave the bytes as is if there's no transfer encoding, the
// transfer encoding is one that is interpreted as-is, or the encoding is not
// known.)
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	// composite types must not be transfer encoded, so ignore the header if
	// the Content-type is multipart/* or message/*
	ct, err := h.GetContentType()
	if err == nil && (ct.Maintype() == "multipart" || ct.Maintype() == "message") {
		return r
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	if dec, ok := Decoders[strings.ToLower(strings.TrimSpace(cte))]; ok {
		return dec(r)
	}

	return r
}
