// Package mailbox extracts a record.Record from every message stored in an
// mbox file.
//
// The "From " envelope line that separates messages is consumed by the mbox
// reader, so each message is parsed and extracted exactly like a message read
// from its own file.
package mailbox
