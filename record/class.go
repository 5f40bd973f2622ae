package record

import (
	"strings"

	"github.com/zostay/go-email2dict/message/header"
)

// Class is the semantic class of a header field. It determines how many
// times the field may appear and what value it becomes in a Record.
type Class int

// The header classes. The zero value is not a class.
const (
	ClassUniqueString        Class = iota + 1 // string, exactly one field
	ClassAddressList                          // AddressList, one or more fields
	ClassContentType                          // "main/sub" string, exactly one field
	ClassDates                                // []time.Time, one or more fields
	ClassUniqueDate                           // time.Time, exactly one field
	ClassUniqueSingleAddress                  // Address, exactly one field with one mailbox
	ClassSingleAddresses                      // []Address, one mailbox per field
	ClassContentDisposition                   // Disposition, exactly one field
)

var classNames = map[Class]string{
	ClassUniqueString:        "unique string",
	ClassAddressList:         "address list",
	ClassContentType:         "content type",
	ClassDates:               "dates",
	ClassUniqueDate:          "unique date",
	ClassUniqueSingleAddress: "unique single address",
	ClassSingleAddresses:     "single addresses",
	ClassContentDisposition:  "content disposition",
}

// String returns the name of the class.
func (c Class) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return "unknown"
}

// registry maps lower-cased header names to their Class.
var registry = map[string]Class{
	"subject":             ClassUniqueString,
	"message-id":          ClassUniqueString,
	"from":                ClassAddressList,
	"to":                  ClassAddressList,
	"cc":                  ClassAddressList,
	"bcc":                 ClassAddressList,
	"content-type":        ClassContentType,
	"date":                ClassUniqueDate,
	"resent-date":         ClassDates,
	"orig-date":           ClassUniqueDate,
	"resent-to":           ClassAddressList,
	"resent-cc":           ClassAddressList,
	"resent-bcc":          ClassAddressList,
	"resent-from":         ClassAddressList,
	"reply-to":            ClassAddressList,
	"sender":              ClassUniqueSingleAddress,
	"resent-sender":       ClassSingleAddresses,
	"content-disposition": ClassContentDisposition,
}

// dropped lists the header names never copied into a Record.
var dropped = map[string]struct{}{
	"content-transfer-encoding": {},
	"mime-version":              {},
}

// ClassOf returns the Class of the named header and whether it has one.
func ClassOf(name string) (Class, bool) {
	c, ok := registry[strings.ToLower(name)]
	return c, ok
}

// IsDropped returns true if the named header is never copied into a Record.
func IsDropped(name string) bool {
	_, ok := dropped[strings.ToLower(name)]
	return ok
}

const (
	wantOne        = "exactly one"
	wantAtLeastOne = "at least one"
)

// process turns all the fields with the given lower-cased name into the value
// for the class. The header must hold at least one such field.
func (c Class) process(h *header.Header, name string) (any, error) {
	fs := h.GetAllFieldsNamed(name)
	n := len(fs)
	switch c {
	case ClassUniqueString, ClassContentType, ClassUniqueDate,
		ClassUniqueSingleAddress, ClassContentDisposition:
		if n != 1 {
			return nil, &CardinalityError{Header: name, Want: wantOne, Got: n}
		}
	default:
		if n < 1 {
			return nil, &CardinalityError{Header: name, Want: wantAtLeastOne, Got: n}
		}
	}

	switch c {
	case ClassUniqueString:
		return fs[0].Body(), nil

	case ClassAddressList:
		return addressList(h, name)

	case ClassContentType:
		cts, err := h.GetAllContentTypes(name)
		if err != nil {
			return nil, malformed(name, err)
		}
		return strings.ToLower(cts[0].MediaType()), nil

	case ClassDates:
		ts, err := h.GetAllTimes(name)
		if err != nil {
			return nil, malformed(name, err)
		}
		return ts, nil

	case ClassUniqueDate:
		ts, err := h.GetAllTimes(name)
		if err != nil {
			return nil, malformed(name, err)
		}
		return ts[0], nil

	case ClassUniqueSingleAddress:
		as, err := singleAddresses(h, name)
		if err != nil {
			return nil, err
		}
		return as[0], nil

	case ClassSingleAddresses:
		return singleAddresses(h, name)

	case ClassContentDisposition:
		pvs, err := h.GetAllParamValues(name)
		if err != nil {
			return nil, malformed(name, err)
		}
		return Disposition{
			Disposition: pvs[0].Disposition(),
			Params:      pvs[0].Parameters().Map(),
		}, nil
	}

	panic("record: unknown header class " + c.String())
}

func newAddress(mb header.Mailbox) Address {
	return Address{Realname: mb.DisplayName, Address: mb.Address}
}

// addressList flattens the groups of every field in order. Named groups
// become a Group entry, everything else is added to the list directly.
func addressList(h *header.Header, name string) (AddressList, error) {
	all, err := h.GetAllAddressGroups(name)
	if err != nil {
		return nil, malformed(name, err)
	}

	al := AddressList{}
	for _, gs := range all {
		for _, g := range gs {
			as := make([]Address, len(g.Mailboxes))
			for i, mb := range g.Mailboxes {
				as[i] = newAddress(mb)
			}

			if g.Grouped {
				al = append(al, Group{Group: g.DisplayName, Addresses: as})
				continue
			}

			for _, a := range as {
				al = append(al, a)
			}
		}
	}
	return al, nil
}

// singleAddresses returns one address per field, failing if any field holds
// a group or other than one mailbox.
func singleAddresses(h *header.Header, name string) ([]Address, error) {
	fs := h.GetAllFieldsNamed(name)
	as := make([]Address, len(fs))
	for i, f := range fs {
		gs := header.ParseAddressGroups(f.RawBody())
		if len(gs) != 1 || gs[0].Grouped || len(gs[0].Mailboxes) != 1 {
			return nil, &MalformedHeaderError{Header: name, Body: f.RawBody(), Err: header.ErrNotSingleAddress}
		}
		as[i] = newAddress(gs[0].Mailboxes[0])
	}
	return as, nil
}
