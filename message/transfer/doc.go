// Package transfer contains the decoders for the Content-transfer-encoding
// header. Only the values of quoted-printable and base64 result in changes to
// the bytes read. Other settings such as binary, 7bit, or 8bit leave the bytes
// as-is.
//
// For the sake of this module, the term "decoded" means that the content has
// been transformed from the named Content-transfer-encoding back to the
// charset encoded form.
package transfer
