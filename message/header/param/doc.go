// Package param provides tools for dealing with parameterized headers. These
// headers include the Content-type and Content-disposition header. It parses
// RFC 2045 quoted-string parameter values and RFC 2231 extended parameters
// (charset and language tagging, percent-encoding and continuations) and
// provides the ContentType codec for reading and writing Content-type values.
package param
