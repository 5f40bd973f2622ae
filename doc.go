// Package email2dict turns email messages into structured records.
//
// The work is split by part of the message. The message package parses raw
// bytes into a tree of message.Opaque and message.Multipart parts. The
// message/header package gives typed access to the header fields of each
// part, and message/header/param parses and formats parameterized values such
// as Content-type and Content-disposition, including RFC 2231 extended
// parameters.
//
// The record package walks a parsed message and builds a record.Record: an
// ordered set of processed header values, the preamble and epilogue of
// multipart parts, and the content, which is a list of sub-records, a decoded
// string, or raw bytes. Well-known header fields are checked against the
// rules of their record.Class, so a message with two Subject fields or a
// Sender naming a group fails instead of producing a misleading record.
//
// The mailbox package does the same for every message in an mbox file, and
// cmd/email2dict exposes all of it on the command line.
package email2dict
