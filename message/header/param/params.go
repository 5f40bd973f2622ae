package param

import (
	"bytes"
	"encoding/json"
	"strings"
)

// These are parameter names commonly found on Content-type and
// Content-disposition headers.
const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in the
	// Content-type header.
	Boundary = "boundary"

	// Filename is the name of the filename parameter that may be present in the
	// Content-disposition header.
	Filename = "filename"
)

// Param is a single parameter name and its decoded value.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered set of parameters. Names are matched
// case-insensitively.
type Params []Param

// NewParams builds Params from alternating names and values. A trailing name
// without a value is ignored.
func NewParams(kv ...string) Params {
	ps := make(Params, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		ps = ps.with(kv[i], kv[i+1])
	}
	return ps
}

func (ps Params) index(name string) int {
	for i, p := range ps {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

// Lookup returns the value of the named parameter and whether it was set.
func (ps Params) Lookup(name string) (string, bool) {
	if i := ps.index(name); i >= 0 {
		return ps[i].Value, true
	}
	return "", false
}

// Get returns the value of the named parameter or an empty string.
func (ps Params) Get(name string) string {
	v, _ := ps.Lookup(name)
	return v
}

// Names returns the parameter names in order.
func (ps Params) Names() []string {
	ns := make([]string, len(ps))
	for i, p := range ps {
		ns[i] = p.Name
	}
	return ns
}

// Map returns the parameters as a map. The order is lost.
func (ps Params) Map() map[string]string {
	m := make(map[string]string, len(ps))
	for _, p := range ps {
		m[p.Name] = p.Value
	}
	return m
}

// Clone returns a copy of the parameters. The result is never nil.
func (ps Params) Clone() Params {
	c := make(Params, len(ps))
	copy(c, ps)
	return c
}

// with returns ps with the named parameter replaced in place or appended.
func (ps Params) with(name, value string) Params {
	if i := ps.index(name); i >= 0 {
		ps[i].Value = value
		return ps
	}
	return append(ps, Param{name, value})
}

// equal compares names case-insensitively and values exactly, ignoring order.
func (ps Params) equal(other Params) bool {
	if len(ps) != len(other) {
		return false
	}
	for _, p := range ps {
		v, ok := other.Lookup(p.Name)
		if !ok || v != p.Value {
			return false
		}
	}
	return true
}

// MarshalJSON writes the parameters as a JSON object, keeping their order.
func (ps Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// params reads the ";"-separated parameter list that follows the primary
// value of a parameterized header. Empty segments are skipped. Extended
// parameters are assembled and decoded before returning.
func (l *lexer) params() (Params, error) {
	raw := make([]rawParam, 0, 4)
	for {
		if !l.skipCFWS() {
			return nil, errMalformed
		}
		if l.done() {
			break
		}
		if !l.consume(';') {
			return nil, errMalformed
		}
		if !l.skipCFWS() {
			return nil, errMalformed
		}
		if l.done() || l.peek() == ';' {
			continue
		}

		name := l.token()
		if name == "" {
			return nil, errMalformed
		}

		if !l.skipCFWS() || !l.consume('=') || !l.skipCFWS() {
			return nil, errMalformed
		}

		var value string
		if l.peek() == '"' {
			v, ok := l.quoted()
			if !ok {
				return nil, errMalformed
			}
			value = v
		} else {
			value = l.token()
			if value == "" {
				return nil, errMalformed
			}
		}

		raw = append(raw, rawParam{strings.ToLower(name), value})
	}

	return assemble(raw)
}
