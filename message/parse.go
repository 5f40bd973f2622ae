package message

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/zostay/go-email2dict/internal/scanner"
	"github.com/zostay/go-email2dict/message/header"
	"github.com/zostay/go-email2dict/message/header/field"
	"github.com/zostay/go-email2dict/message/transfer"
)

// Constants related to Parse() options.
const (
	// DefaultMaxMultipartDepth is the default depth the parser will recurse
	// into a message.
	DefaultMaxMultipartDepth = 10

	// DefaultChunkSize the default size of chunks to read from the input while
	// splitting the message into header and body. Defaults to 16K, though this
	// could change at any time.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default maximum byte length to scan before
	// giving up on finding the end of the header.
	DefaultMaxHeaderLength = bufio.MaxScanTokenSize

	// DefaultMaxPartLength is the default maximum byte length to scan before
	// given up on scanning a message part at any given level.
	DefaultMaxPartLength = bufio.MaxScanTokenSize
)

// Errors that occur during parsing.
var (
	// ErrNoBoundary is returned by Parse when the boundary parameter is not set
	// on the Content-type field of the message header.
	ErrNoBoundary = errors.New("the boundary parameter is missing from Content-type")

	// ErrLargeHeader is returned by Parse when the header is longer than the
	// configured WithMaxHeaderLength option (or the default,
	// DefaultMaxHeaderLength).
	ErrLargeHeader = errors.New("the header exceeds the maximum parse length")

	// ErrLargePart is returned by Parse when a part is longer than the configured
	// WithMaxPartLength option (or the default, DefaultMaxPartLength).
	ErrLargePart = errors.New("a message part exceeds the maximum parse length")
)

var splits = [][]byte{
	[]byte("\x0d\x0a\x0d\x0a"), // \r\n\r\n
	[]byte("\x0a\x0d\x0a\x0d"), // \n\r\n\r, extremely unlikely, possibly never
	[]byte("\x0a\x0a"),         // \n\n
	[]byte("\x0d\x0d"),         // \r\r
}

type parser struct {
	maxHeaderLen int
	maxPartLen   int
	maxDepth     int
	chunkSize    int
	decode       bool
}

// clone copies the parser so options never modify defaultParser.
func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

var defaultParser = &parser{
	maxHeaderLen: DefaultMaxHeaderLength,
	maxPartLen:   DefaultMaxPartLength,
	maxDepth:     DefaultMaxMultipartDepth,
	chunkSize:    DefaultChunkSize,
	decode:       false,
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works.
type ParseOption func(pr *parser)

// WithMaxHeaderLength is a ParseOption that sets the maximum size the buffer is
// allowed to reach before parsing exits with an ErrLargeHeader error. During
// parsing, the io.Reader will be read from a chunk at a time until the end of
// the header is found. This setting prevents bad input from resulting in an out
// of memory error. Setting this to a value less than or equal to 0 will result
// in there being no maximum length. The default value is
// DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *parser) { pr.maxHeaderLen = n }
}

// WithMaxPartLength is a ParseOption that sets the maximum size the buffer is
// allowed to reach while scanning for message parts at any level. The parts are
// parsed out at each level of depth separately, so this must be large enough to
// accommodate the largest part at the top level being parsed. If the part gets
// too large, Parse will fail with an ErrLargePart error. There is, at this
// time, no way to disable this limit.
func WithMaxPartLength(n int) ParseOption {
	return func(pr *parser) { pr.maxPartLen = n }
}

// DecodeTransferEncoding is a ParseOption that enables the decoding of
// Content-transfer-encoding while parsing. By default, Content-transfer-encoding
// is not decoded and the leaf parts report IsEncoded() as true, leaving
// decoding to the reader of the part.
func DecodeTransferEncoding() ParseOption {
	return func(pr *parser) { pr.decode = true }
}

// WithChunkSize is a ParseOption that controls how many bytes to read at a time
// while parsing an email message. The default chunk size is DefaultChunkSize.
func WithChunkSize(chunkSize int) ParseOption {
	return func(pr *parser) { pr.chunkSize = chunkSize }
}

// WithMaxDepth is a ParseOption that controls how deep the parser will go in
// recursively parsing a multipart message. This is set to
// DefaultMaxMultipartDepth by default.
func WithMaxDepth(maxDepth int) ParseOption {
	return func(pr *parser) { pr.maxDepth = maxDepth }
}

// WithoutMultipart is a ParseOption that will not allow parsing of any
// multipart or encapsulated messages. The message returned from Parse() will
// always be *Opaque.
//
// You should use this option if all you are interested in is the top-level
// headers. For large email messages, use of this option can grant extreme
// improvements to memory performance. This is because this option prevents any
// multipart processing, which means the header will be read, parsed, and stored
// in memory. However, only a single chunk of the body will have been read. The
// rest of the input io.Reader is left unread.
func WithoutMultipart() ParseOption {
	return func(pr *parser) { pr.maxDepth = 0 }
}

// WithoutRecursion is a ParseOption that will only allow a single level of
// multipart parsing.
func WithoutRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = 1 }
}

// WithUnlimitedRecursion is a ParseOption that will allow the parser to parse
// sub-parts of any depth.
func WithUnlimitedRecursion() ParseOption {
	return func(pr *parser) { pr.maxDepth = -1 }
}

// searchForSplit looks for a header/body split. Returns -1, nil if none is
// found. If the header/body split is found, it returns the location of the
// split (including the split newlines) and the line break to use with the
// header as a slice of bytes.
//
// When atStart is set, buf begins at the first byte of a sub-part, so a
// leading line break marks an empty header. Later windows begin mid-header
// and must not be checked that way.
func searchForSplit(buf []byte, atStart bool) (pos int, crlf []byte) {
	if atStart {
		// the first char of a part might be a line break, indicating an empty
		// header
		for _, s := range splits {
			if testPos := bytes.Index(buf, s[0:len(s)/2]); testPos == 0 {
				pos = testPos + len(s)/2
				crlf = s[0 : len(s)/2]
				return
			}
		}
	}

	// Find the split between header/body
	pos = -1
	for _, s := range splits {
		if testPos := bytes.Index(buf, s); testPos > -1 {
			pos = testPos + len(s)
			crlf = s[0 : len(s)/2]
			return
		}
	}
	return
}

// splitHeadFromBody will detect the index of the split between the message
// header and the message body as well as the line break the email is using. It
// returns both.
func (pr *parser) splitHeadFromBody(r io.Reader, subpart bool) ([]byte, []byte, io.Reader, error) {
	p := make([]byte, pr.chunkSize)
	buf := &bytes.Buffer{}
	searched := 0
	for {
		// read in some bytes
		n, err := r.Read(p)

		// check to see if the header is too long
		if pr.maxHeaderLen > 0 && n+buf.Len() > pr.maxHeaderLen {
			return nil, nil, nil, ErrLargeHeader
		}

		isEof := false
		if errors.Is(err, io.EOF) {
			isEof = true
		} else if err != nil {
			return nil, nil, nil, err
		}

		// add that to our buffer
		_, err = buf.Write(p[:n])
		if err != nil {
			return nil, nil, nil, err
		}

		// check the tail of the buffer for end of header
		pos, crlf := searchForSplit(buf.Bytes()[searched:], subpart && searched == 0)
		if pos >= 0 {
			pos += searched
			// we found the split, header is bytes up to the split
			hdr := make([]byte, pos)
			for hdrRead, n := 0, 0; hdrRead < pos; hdrRead += n {
				n, err = buf.Read(hdr[hdrRead:])
				if err != nil {
					return nil, nil, nil, err
				}
			}

			// the rest is the body
			var body io.Reader
			if _, isBytesReader := r.(*bytes.Reader); isBytesReader {
				// We treat bytes.Reader special because this is what we use
				// internally to parse each part of a multipart message. This
				// will pull the data out of the bytes.Reader and attach it to
				// the end of the byte.Buffer we've been building.
				_, err = buf.ReadFrom(r)
				if err != nil {
					return nil, nil, nil, err
				}
				// Without this, the header bytes will still be in the buffer.
				// This will cause those bytes to be discarded, which will
				// improve memory performance somewhat.
				body = bytes.NewReader(buf.Bytes())
			} else {
				// Otherwise this is the caller's input. The unread input is
				// left for the body reader so an Opaque never holds more than
				// the chunks read while looking for the header.
				body = io.MultiReader(bytes.NewReader(buf.Bytes()), r)
			}
			return hdr, crlf, body, nil
		}

		// No split found and EOF? Let's break out and then we'll process as if
		// the entire message is just header.
		if isEof {
			break
		}

		// The last 3 bytes might be the prefix to the split point
		searched = buf.Len() - 3
		if searched < 0 {
			searched = 0
		}
	}

	// If we're here, we were unable to find a header/body split. We will just
	// assume the message is all header, no body. Let's see if we can find what
	// to use as a break.
	for _, s := range splits {
		crlf := s[0 : len(s)/2]
		if bytes.Contains(buf.Bytes(), crlf) {
			return buf.Bytes(), crlf, nil, nil
		}
	}

	// Or the ultimate fallback is...
	return buf.Bytes(), []byte("\x0d"), nil, nil
}

// parseToOpaque turns a reader into an Opaque.
func (pr *parser) parseToOpaque(r io.Reader, subpart bool) (*Opaque, error) {
	hdr, crlf, body, err := pr.splitHeadFromBody(r, subpart)
	if err != nil {
		return nil, err
	}

	head, err := header.Parse(hdr, header.Break(crlf))
	var badStartErr *field.BadStartError
	if err != nil && !errors.As(err, &badStartErr) {
		return nil, err
	}

	if pr.decode {
		body = transfer.ApplyTransferDecoding(head, body)
	}

	return &Opaque{
		Header:  *head,
		Reader:  body,
		encoded: !pr.decode,
	}, nil
}

// Parse will consume input from the given reader and return a Generic message
// containing the parsed content. Parse will proceed in two or three phases.
//
// During the first phase, the given io.Reader will be read in chunks at a time,
// as defined by the WithChunkSize() option (or by the default,
// DefaultChunkSize). Each chunk will be checked for a double line break of some
// kind (e.g., "\r\n\r\n" or "\n\n" are the most common). Once found, that line
// break is used to determine what line break the message will use for breaking
// up the header into fields. The fields will be parsed from the accumulated
// header chunks using the bytes read in so far preceding the header break.
//
// The last part of the final chunk read and the remainder of the io.Reader will
// then make up the body content of an *Opaque message.
//
// If accumulated header chunks total larger than the WithMaxHeaderLength()
// option (or the default, DefaultMaxHeaderLength) while searching for the
// double line break, the Parse will fail with an error and return
// ErrLargeHeader. If this happens, the io.Reader may be in a partial read
// state.
//
// If the first phase completes successfully, the second phase will begin.
// During the second phase, the *Opaque message created during the first phase
// may be transformed into a *Multipart. The way this will proceed is
// determined by the WithMaxDepth() related options and also the
// WithMaxPartLength() option.
//
// If the Content-type of the message is a multipart/* MIME type, the body will
// be scanned to break it into parts according to the boundary parameter set on
// the Content-type. The text before the first boundary is kept as the
// preamble and the text after the final boundary is kept as the epilogue. The
// parts must be smaller than the setting in WithMaxPartLength() option (or the
// default, DefaultMaxPartLength). If not, the parse will fail with
// ErrLargePart.
//
// If the Content-type is message/rfc822 (or message/global), the body is an
// encapsulated message. It is parsed as a message of its own and returned as
// the single part of a *Multipart with no preamble or epilogue.
//
// These newly broken up parts will each go through the two phase parsing
// process themselves. This continues until either the deepest sub-part is
// parsed or the maximum depth is reached.
//
// If the DecodeTransferEncoding() option is passed, a third phase of parsing
// will also be performed. The parts of the message that do not have sub-parts
// and have a Content-transfer-encoding header set, will be decoded.
//
// Errors at any point in the process may lead to a completely failed parse,
// especially those involving ErrLargeHeader or ErrLargePart. However, whenever
// possible, the partially parsed message object will be returned.
//
// The original io.Reader provided may or may not be completely read upon
// return. This is true whether an error has occurred or not. Reading all the
// message body contents of all sub-parts will consume it completely.
func Parse(r io.Reader, opts ...ParseOption) (Generic, error) {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}

	msg, err := pr.parseToOpaque(r, false)
	if err != nil {
		return msg, err
	}

	return pr.parse(msg, 0)
}

// parse implements the Parse methods.
func (pr *parser) parse(msg *Opaque, depth int) (Generic, error) {
	// we're too deep: stop here and just return the original
	if pr.maxDepth >= 0 && depth >= pr.maxDepth {
		return msg, nil
	}

	// lookup the Content-type header
	ct, err := msg.GetContentType()
	if err != nil {
		return msg, nil
	}

	switch {
	case ct.Maintype() == "multipart":
		return pr.parseMultipart(msg, ct.Boundary(), depth)
	case ct.MediaType() == "message/rfc822" || ct.MediaType() == "message/global":
		return pr.parseEncapsulated(msg, depth)
	default:
		return msg, nil
	}
}

// parseEncapsulated parses the body of a message/rfc822 part as a message.
func (pr *parser) parseEncapsulated(msg *Opaque, depth int) (Generic, error) {
	if msg.Reader == nil {
		return msg, nil
	}

	inner, err := pr.parseToOpaque(msg.Reader, false)
	if err != nil {
		return msg, err
	}

	part, err := pr.parse(inner, depth+1)

	return &Multipart{
		Header: msg.Header,
		parts:  []Part{part},
	}, err
}

// parseMultipart splits a multipart/* body on its boundary.
func (pr *parser) parseMultipart(msg *Opaque, boundary string, depth int) (Generic, error) {
	// if the boundary is missing, don't parse it and return an error
	if boundary == "" {
		return msg, ErrNoBoundary
	}

	if msg.Reader == nil {
		return &Multipart{Header: msg.Header}, nil
	}

	// The initial boundaries are like --boundary and final boundary is like
	// --boundary-- and these must be on their own line. This means that every
	// boundary but the very first must begin with a newline, but the first
	// might not have one. We search without a newline until the first boundary
	// is found, then prefix it with the newline for subsequent searches.
	//
	// The newline before each boundary belongs to the boundary, so it is
	// never part of the preamble or a part. The newline after the final
	// boundary is dropped from the epilogue.
	br := msg.Break()
	sb := []byte(fmt.Sprintf("--%s%s", boundary, br))
	mb := []byte(fmt.Sprintf("%s--%s%s", br, boundary, br))
	eb := []byte(fmt.Sprintf("%s--%s--%s", br, boundary, br))
	fb := []byte(fmt.Sprintf("%s--%s--", br, boundary))

	const (
		modeStart = iota
		modeMiddle
		modeEnd
	)

	// This scanner split function splits on any email message boundary. It
	// returns the parts as tokens, but the preamble and epilogue, it captures
	// itself in the preamble/epilogue vars.
	sc := bufio.NewScanner(msg.Reader)
	sc.Buffer(make([]byte, pr.chunkSize), pr.maxPartLen)
	var preamble, epilogue []byte
	mode := modeStart
	awaitingPreamble := true
	sc.Split(
		scanner.MakeSplitFuncExitByAdvance( // bufio.SplitFunc sucks
			func(data []byte, atEOF bool) (advance int, token []byte, err error) {
				switch mode {
				case modeStart:
					// looking for an empty preamble
					if atEOF || len(data) >= len(sb) {
						if bytes.HasPrefix(data, sb) {
							// initial string is the boundary, so we have an
							// empty preamble
							awaitingPreamble = false
							advance = len(sb)
						}

						// either way, move on to modeMiddle
						mode = modeMiddle
						err = scanner.ErrContinue
					}
					// else, we don't have enough data to know if we've got a
					// zero-length preamble yet or not.

				case modeMiddle:
					// we are now looking for parts or possibly the preamble
					if ix := bytes.Index(data, mb); ix >= 0 {
						// we found a \n--boundary\n string:
						// |-> advance past the boundary for the next token
						// |-> if awaitingPreamble, capture preamble
						// |-> if not awaitingPreamble, return token
						advance = ix + len(mb)
						if awaitingPreamble {
							preamble = make([]byte, ix)
							copy(preamble, data[:ix])
							awaitingPreamble = false
						} else {
							token = data[:ix]
						}
					} else if atEOF {
						// no more interior boundaries, so go find the final
						// boundary
						mode = modeEnd
						err = scanner.ErrContinue
					}
					// else, we aren't at EOF, so there's more input and we may
					// yet find more interior boundaries to split on
				case modeEnd:
					// If we are still awaitingPreamble, the message has no
					// initial boundary at all. The data before the final
					// boundary is treated as the only part.

					// if we are here, we know that atEOF is true
					if ix := bytes.Index(data, eb); ix >= 0 {
						// we found the end \n--boundary--\n string:
						// |-> capture the epilogue, which is everything after
						// |   the boundary line
						// |-> capture the token to return as the final part
						token = data[:ix]
						es := data[ix+len(eb):]
						epilogue = make([]byte, len(es))
						copy(epilogue, es)
					} else if bytes.HasSuffix(data, fb) {
						// we found the final \n--boundary-- string at the
						// actual end of input (no final line break)
						token = data[:len(data)-len(fb)]
						epilogue = []byte{}
					} else {
						// bummer, we have no final boundary, so we'll just
						// treat the rest of the data as the final part
						token = data
					}
					// either way, we're done
					err = bufio.ErrFinalToken
				default:
					// never happens, right?
					panic("unexpected parser state")
				}
				return
			},
		),
	)

	// All returned tokens are parts
	mm := &Multipart{
		Header: msg.Header,
		parts:  make([]Part, 0, 10),
	}

	for sc.Scan() {
		part := sc.Bytes()

		// the scanner reuses its buffer, so each part needs its own copy
		pb := make([]byte, len(part))
		copy(pb, part)

		// parse each part as a simple message first
		opMsg, err := pr.parseToOpaque(bytes.NewReader(pb), true)
		if err != nil {
			return mm, err
		}

		p, err := pr.parse(opMsg, depth+1)
		mm.parts = append(mm.parts, p)
		if err != nil {
			return mm, err
		}
	}

	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return mm, ErrLargePart
		}
		return mm, err
	}

	mm.preamble = preamble
	mm.epilogue = epilogue

	return mm, nil
}
