// Package header provides read access to a parsed email message header. The
// fields are kept in the order they appeared and the getters return typed
// values (times, address groups, parameterized values, content types) for
// all the occurrences of a named field.
//
// The provided Parse() function builds a Header on top of field.ParseLines()
// and field.Parse().
package header
