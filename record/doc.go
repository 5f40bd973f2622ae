// Package record turns a parsed email message into a Record: a tree of plain
// values (strings, times, slices, maps, and nested records) that can be
// serialized directly, for example with encoding/json.
//
// Well-known header fields are interpreted according to their Class. Every
// other field is kept as the list of its decoded bodies. The
// Content-transfer-encoding and MIME-version fields are always dropped.
package record
