package record

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/zostay/go-email2dict/message"
	"github.com/zostay/go-email2dict/message/header"
	"github.com/zostay/go-email2dict/message/header/encoding"
	"github.com/zostay/go-email2dict/message/transfer"
	"github.com/zostay/go-email2dict/message/walker"
)

type extractor struct {
	parallel bool
	maxDepth int
}

// Option modifies how Extract works.
type Option func(*extractor)

// WithParallelParts is an Option that extracts the sub-parts of each
// multipart message concurrently. The parts keep their order in the Record
// and the first failure is returned.
func WithParallelParts() Option {
	return func(e *extractor) { e.parallel = true }
}

// WithMaxDepth is an Option that makes Extract fail with ErrTooDeep when
// parts are nested more than n levels below the top-level message. A value of
// 0 or less means there is no limit, which is the default.
func WithMaxDepth(n int) Option {
	return func(e *extractor) { e.maxDepth = n }
}

// Extract builds the Record for a parsed message. The bodies of leaf parts
// are read, so each message can only be extracted once.
//
// Header fields with a Class are processed according to that Class, and a
// field that breaks the rules of its Class fails the whole extraction with a
// *CardinalityError or a *MalformedHeaderError. Failures inside a sub-part
// are wrapped in a *PartError.
//
// Leaf bodies have their Content-transfer-encoding decoded unless the message
// was parsed with message.DecodeTransferEncoding(). The content of text/*
// parts (and of parts with no Content-type) is decoded from the declared
// charset into a string. Undecodable bytes become unicode.ReplacementChar and
// an unknown charset is read as UTF-8. Any other content is kept as []byte.
func Extract(msg message.Part, opts ...Option) (*Record, error) {
	e := &extractor{}
	for _, opt := range opts {
		opt(e)
	}

	return e.extract(msg, nil)
}

// ExtractReader parses the message read from r and extracts it.
func ExtractReader(r io.Reader, opts ...Option) (*Record, error) {
	msg, err := message.Parse(r, message.WithUnlimitedRecursion())
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	return Extract(msg, opts...)
}

func (e *extractor) extract(msg message.Part, path []int) (*Record, error) {
	if e.maxDepth > 0 && len(path) > e.maxDepth {
		return nil, ErrTooDeep
	}

	h := msg.GetHeader()
	hs, err := e.headers(h)
	if err != nil {
		return nil, err
	}

	r := &Record{
		Headers:  hs,
		Preamble: text(msg.GetPreamble()),
		Epilogue: text(msg.GetEpilogue()),
	}

	if msg.IsMultipart() {
		r.Content, err = e.parts(msg.GetParts(), path)
	} else {
		r.Content, err = body(msg)
	}

	if err != nil {
		return nil, err
	}

	return r, nil
}

func (e *extractor) headers(h *header.Header) (*Headers, error) {
	names := h.Names()
	hs := newHeaders(len(names))
	for _, name := range names {
		if IsDropped(name) {
			continue
		}

		c, known := registry[name]
		if !known {
			bs, err := h.GetAll(name)
			if err != nil {
				return nil, err
			}
			hs.set(name, bs)
			continue
		}

		v, err := c.process(h, name)
		if err != nil {
			return nil, err
		}
		hs.set(name, v)
	}
	return hs, nil
}

func (e *extractor) parts(parts []message.Part, path []int) ([]*Record, error) {
	rs := make([]*Record, len(parts))

	extractPart := func(i int) error {
		sub := []int(walker.Path(path).Child(i))

		r, err := e.extract(parts[i], sub)
		if err != nil {
			var perr *PartError
			if errors.As(err, &perr) {
				return err
			}
			return &PartError{Path: sub, Err: err}
		}

		rs[i] = r
		return nil
	}

	if !e.parallel {
		for i := range parts {
			if err := extractPart(i); err != nil {
				return nil, err
			}
		}
		return rs, nil
	}

	var g errgroup.Group
	for i := range parts {
		g.Go(func() error { return extractPart(i) })
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rs, nil
}

// text returns the bytes as a string or nil if there are none.
func text(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := string(b)
	return &s
}

// body reads and decodes the content of a leaf part.
func body(msg message.Part) (any, error) {
	h := msg.GetHeader()

	var b []byte
	if r := msg.GetReader(); r != nil {
		if msg.IsEncoded() {
			r = transfer.ApplyTransferDecoding(h, r)
		}

		var err error
		b, err = io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
	}

	ct, err := h.GetContentType()
	switch {
	case errors.Is(err, header.ErrNoSuchField):
		return encoding.DecodeLossy(encoding.DefaultCharset, b), nil
	case err != nil:
		return nil, malformed("content-type", err)
	case ct.Maintype() == "text":
		return encoding.DecodeLossy(ct.Charset(), b), nil
	}

	if b == nil {
		b = []byte{}
	}
	return b, nil
}
