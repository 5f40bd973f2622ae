// Package message provides objects for flexibly parsing and reading email
// messages. Parsing survives input that is not strictly correct, because the
// messages found in the wild rarely are.
//
// Parse() returns either an *Opaque, a leaf holding a header and a body, or a
// *Multipart, a branch holding a header and its sub-parts:
//
//	msg, err := message.Parse(in, message.DecodeTransferEncoding())
//	if err != nil {
//	  panic(err)
//	}
//
//	for _, part := range msg.GetParts() {
//	  fmt.Println(part.GetHeader().Get(header.ContentType))
//	}
//
// The body of a part is read through GetReader(). Unless the
// DecodeTransferEncoding() option is given, the Content-transfer-encoding is
// left in place and the part reports IsEncoded() as true.
package message
