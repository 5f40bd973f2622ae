package record

import (
	"bytes"
	"encoding/json"
)

// Record is the structured form of a message or message part.
type Record struct {
	// Headers maps lower-cased field names to their processed values.
	Headers *Headers `json:"headers"`

	// Preamble is the text before the first boundary of a multipart message.
	// It is nil when there is none.
	Preamble *string `json:"preamble"`

	// Content is []*Record for multipart and encapsulated messages, string
	// for text/* parts and []byte for anything else.
	Content any `json:"content"`

	// Epilogue is the text after the final boundary of a multipart message.
	// It is nil when there is none.
	Epilogue *string `json:"epilogue"`
}

// Parts returns the sub-records of a multipart record or nil.
func (r *Record) Parts() []*Record {
	ps, _ := r.Content.([]*Record)
	return ps
}

// Headers is an ordered map from lower-cased header name to the processed
// value of all the fields with that name. The order is the order in which
// each name first appeared in the message.
//
// The value type depends on the Class of the name: string, AddressList,
// time.Time, []time.Time, Address, []Address, Disposition, or []string for
// names without a Class.
type Headers struct {
	names  []string
	values map[string]any
}

func newHeaders(n int) *Headers {
	return &Headers{
		names:  make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

func (h *Headers) set(name string, v any) {
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = v
}

// Len returns the number of header names.
func (h *Headers) Len() int {
	return len(h.names)
}

// Names returns the header names in order.
func (h *Headers) Names() []string {
	return append([]string(nil), h.names...)
}

// Get returns the value stored for the lower-cased name.
func (h *Headers) Get(name string) (any, bool) {
	v, ok := h.values[name]
	return v, ok
}

// MarshalJSON writes the headers as a JSON object with keys in order.
func (h *Headers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range h.names {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		v, err := json.Marshal(h.values[n])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Entry is an element of an AddressList: either an Address or a Group.
type Entry interface {
	isEntry()
}

// Address is a single mailbox.
type Address struct {
	Realname string `json:"realname"`
	Address  string `json:"address"`
}

func (Address) isEntry() {}

// Group is a named group of mailboxes.
type Group struct {
	Group     string    `json:"group"`
	Addresses []Address `json:"addresses"`
}

func (Group) isEntry() {}

// AddressList is the flattened content of every field of an address list
// header. Mailboxes outside of any named group appear directly in the list.
type AddressList []Entry

// Disposition is the processed value of a Content-disposition field.
type Disposition struct {
	Disposition string            `json:"disposition"`
	Params      map[string]string `json:"params"`
}
