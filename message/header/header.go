package header

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zostay/go-email2dict/message/header/field"
	"github.com/zostay/go-email2dict/message/header/param"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")
)

// These are the standard headers defined in RFC 5322 and RFC 2045 that this
// module pays attention to.
const (
	Bcc                     = "Bcc"
	Cc                      = "Cc"
	Comments                = "Comments"
	ContentDisposition      = "Content-disposition"
	ContentTransferEncoding = "Content-transfer-encoding"
	ContentType             = "Content-type"
	Date                    = "Date"
	From                    = "From"
	InReplyTo               = "In-reply-to"
	Keywords                = "Keywords"
	MessageID               = "Message-id"
	MIMEVersion             = "Mime-version"
	OrigDate                = "Orig-date"
	References              = "References"
	ReplyTo                 = "Reply-to"
	ResentBcc               = "Resent-bcc"
	ResentCc                = "Resent-cc"
	ResentDate              = "Resent-date"
	ResentFrom              = "Resent-from"
	ResentSender            = "Resent-sender"
	ResentTo                = "Resent-to"
	Sender                  = "Sender"
	Subject                 = "Subject"
	To                      = "To"
)

// FieldError is returned when the body of a field cannot be parsed as the
// type requested by the getter.
type FieldError struct {
	Name string // the name of the field as it appeared
	Body string // the raw body of the field
	Err  error  // the parse failure
}

// Error returns the error message.
func (err *FieldError) Error() string {
	return fmt.Sprintf("header field %s: %v", err.Name, err.Err)
}

// Unwrap returns the parse failure.
func (err *FieldError) Unwrap() error {
	return err.Err
}

// Header is an ordered, read-only list of header fields. Getters match field
// names case-insensitively and return ErrNoSuchField when the named field is
// missing.
type Header struct {
	lbr    Break
	fields []*field.Field
}

// New returns a header holding the given fields in order.
func New(lbr Break, fields ...*field.Field) *Header {
	return &Header{
		lbr:    lbr,
		fields: fields,
	}
}

// Break returns the line break used when the header was parsed.
func (h *Header) Break() Break {
	return h.lbr
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// GetField returns the nth field or nil when n is out of range.
func (h *Header) GetField(n int) *field.Field {
	if n < 0 || n >= len(h.fields) {
		return nil
	}
	return h.fields[n]
}

// Names returns the lower-cased names of the fields in the order each name
// first appears. Each name is listed once.
func (h *Header) Names() []string {
	seen := make(map[string]struct{}, len(h.fields))
	names := make([]string, 0, len(h.fields))
	for _, f := range h.fields {
		n := strings.ToLower(f.Name())
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names
}

// GetIndexesNamed returns the indexes of all the fields with the given name.
func (h *Header) GetIndexesNamed(name string) []int {
	ixs := make([]int, 0, 1)
	for i, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			ixs = append(ixs, i)
		}
	}
	return ixs
}

// GetAllFieldsNamed returns all the fields with the given name in header
// order.
func (h *Header) GetAllFieldsNamed(name string) []*field.Field {
	ixs := h.GetIndexesNamed(name)
	fs := make([]*field.Field, len(ixs))
	for i, ix := range ixs {
		fs[i] = h.fields[ix]
	}
	return fs
}

// getUnique returns the only field with the given name, the first with
// ErrManyFields, or ErrNoSuchField.
func (h *Header) getUnique(name string) (*field.Field, error) {
	fs := h.GetAllFieldsNamed(name)
	switch len(fs) {
	case 0:
		return nil, ErrNoSuchField
	case 1:
		return fs[0], nil
	default:
		return fs[0], ErrManyFields
	}
}

// Get retrieves the decoded string value of the named field.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple headers for the given named field,
// it will return the first value found and return ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	f, err := h.getUnique(name)
	if f == nil {
		return "", err
	}
	return f.Body(), err
}

// GetAll fetches the decoded bodies of all the fields with the given name.
//
// It returns nil with ErrNoSuchField if no field with the given name is set on
// the header.
func (h *Header) GetAll(name string) ([]string, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	bs := make([]string, len(fs))
	for i, f := range fs {
		bs[i] = f.Body()
	}
	return bs, nil
}

// GetAllTimes parses every field with the given name as a date. See
// ParseTime for the formats accepted.
//
// It returns ErrNoSuchField if the field is missing and a *FieldError for the
// first field that does not hold a date.
func (h *Header) GetAllTimes(name string) ([]time.Time, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	ts := make([]time.Time, len(fs))
	for i, f := range fs {
		t, err := ParseTime(f.Body())
		if err != nil {
			return nil, &FieldError{f.Name(), f.RawBody(), err}
		}
		ts[i] = t
	}
	return ts, nil
}

// GetTime parses the named field as a date.
//
// It returns ErrNoSuchField if the field is missing and ErrManyFields if it
// is set more than once.
func (h *Header) GetTime(name string) (time.Time, error) {
	f, err := h.getUnique(name)
	if err != nil {
		return time.Time{}, err
	}

	t, err := ParseTime(f.Body())
	if err != nil {
		return time.Time{}, &FieldError{f.Name(), f.RawBody(), err}
	}
	return t, nil
}

// GetDate returns the Date header as a time.Time.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}

// GetAllAddressGroups parses every field with the given name as an address
// list. The result holds one slice of groups per field, in header order.
//
// Parsing never fails. See ParseAddressGroups for how broken addresses are
// handled. It returns ErrNoSuchField if the field is missing.
func (h *Header) GetAllAddressGroups(name string) ([][]AddressGroup, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	all := make([][]AddressGroup, len(fs))
	for i, f := range fs {
		all[i] = ParseAddressGroups(f.RawBody())
	}
	return all, nil
}

// GetAllParamValues parses every field with the given name as a
// parameterized value, such as a Content-disposition.
//
// It returns ErrNoSuchField if the field is missing and a *FieldError for the
// first field that cannot be parsed.
func (h *Header) GetAllParamValues(name string) ([]*param.Value, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	pvs := make([]*param.Value, len(fs))
	for i, f := range fs {
		pv, err := param.Parse(f.RawBody())
		if err != nil {
			return nil, &FieldError{f.Name(), f.RawBody(), err}
		}
		pvs[i] = pv
	}
	return pvs, nil
}

// GetAllContentTypes parses every field with the given name as a content
// type.
//
// It returns ErrNoSuchField if the field is missing and a *FieldError for the
// first field that cannot be parsed.
func (h *Header) GetAllContentTypes(name string) ([]*param.ContentType, error) {
	fs := h.GetAllFieldsNamed(name)
	if len(fs) == 0 {
		return nil, ErrNoSuchField
	}

	cts := make([]*param.ContentType, len(fs))
	for i, f := range fs {
		ct, err := param.ParseContentType(f.RawBody())
		if err != nil {
			return nil, &FieldError{f.Name(), f.RawBody(), err}
		}
		cts[i] = ct
	}
	return cts, nil
}

// GetContentType returns the Content-type header as a param.ContentType.
//
// It returns nil and ErrNoSuchField if the field is not set on the header. It
// returns nil and ErrManyFields if the field is set more than once on the
// header. It will return nil and a *FieldError if there is a problem parsing
// the value.
func (h *Header) GetContentType() (*param.ContentType, error) {
	f, err := h.getUnique(ContentType)
	if err != nil {
		return nil, err
	}

	ct, err := param.ParseContentType(f.RawBody())
	if err != nil {
		return nil, &FieldError{f.Name(), f.RawBody(), err}
	}
	return ct, nil
}

// GetContentDisposition returns the Content-disposition header as a
// param.Value.
func (h *Header) GetContentDisposition() (*param.Value, error) {
	f, err := h.getUnique(ContentDisposition)
	if err != nil {
		return nil, err
	}

	pv, err := param.Parse(f.RawBody())
	if err != nil {
		return nil, &FieldError{f.Name(), f.RawBody(), err}
	}
	return pv, nil
}

// GetTransferEncoding returns the content of the Content-transfer-encoding
// header.
//
// It will return ErrNoSuchField if the header is not set. it will return
// ErrManyFields if the field is set more than once.
func (h *Header) GetTransferEncoding() (string, error) {
	return h.Get(ContentTransferEncoding)
}

// GetRecipients returns the sorted, de-duplicated addresses found in the To,
// Cc, and Bcc fields, including the members of any groups.
func (h *Header) GetRecipients() []string {
	seen := map[string]struct{}{}
	for _, name := range []string{To, Cc, Bcc} {
		all, err := h.GetAllAddressGroups(name)
		if err != nil {
			continue
		}

		for _, gs := range all {
			for _, g := range gs {
				for _, mb := range g.Mailboxes {
					seen[mb.Address] = struct{}{}
				}
			}
		}
	}

	rs := make([]string, 0, len(seen))
	for a := range seen {
		rs = append(rs, a)
	}
	sort.Strings(rs)
	return rs
}
