// Package walker visits the parts of a parsed message depth first and names
// each one by its Path.
package walker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zostay/go-email2dict/message"
)

// ErrSkipParts may be returned by a PartWalker to continue the walk without
// visiting the sub-parts of the current part.
var ErrSkipParts = errors.New("skip sub-parts")

// Path locates a part in a message by the index of the part at each level of
// nesting. The top-level message has an empty Path and its second part is
// Path{1}. The same paths appear in the errors reported for sub-parts during
// record extraction.
type Path []int

// ParsePath parses the dotted form returned by Path.String. The empty string
// is the top-level message.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}

	ixs := strings.Split(s, ".")
	p := make(Path, len(ixs))
	for i, ix := range ixs {
		n, err := strconv.Atoi(ix)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad part path %q", s)
		}
		p[i] = n
	}
	return p, nil
}

// String returns the indexes joined with dots, such as "1.0".
func (p Path) String() string {
	ixs := make([]string, len(p))
	for i, ix := range p {
		ixs[i] = strconv.Itoa(ix)
	}
	return strings.Join(ixs, ".")
}

// Depth returns how far below the top-level message the part is nested.
func (p Path) Depth() int {
	return len(p)
}

// Child returns a new Path for the ith sub-part of the part at p.
func (p Path) Child(i int) Path {
	c := make(Path, len(p)+1)
	copy(c, p)
	c[len(p)] = i
	return c
}

// Find returns the part of msg found at the path.
func Find(msg message.Part, p Path) (message.Part, bool) {
	for _, ix := range p {
		parts := msg.GetParts()
		if ix >= len(parts) {
			return nil, false
		}
		msg = parts[ix]
	}
	return msg, true
}

// PartWalker is a function that can be processed for each part of a message.
type PartWalker func(path Path, part message.Part) error

// Walk performs a depth first search for all the parts of a message starting
// with the message itself. It calls the PartWalker for each part of the
// message. If the PartWalker returns ErrSkipParts, the sub-parts of that
// part are skipped. Any other error stops processing immediately and is
// returned.
func (w PartWalker) Walk(msg message.Part) error {
	return w.walk(Path{}, msg)
}

func (w PartWalker) walk(p Path, part message.Part) error {
	if err := w(p, part); errors.Is(err, ErrSkipParts) {
		return nil
	} else if err != nil {
		return err
	}

	for i, sub := range part.GetParts() {
		if err := w.walk(p.Child(i), sub); err != nil {
			return err
		}
	}
	return nil
}

// WalkLeaves calls the PartWalker for each part without sub-parts, which are
// the parts that carry content.
func (w PartWalker) WalkLeaves(msg message.Part) error {
	var lw PartWalker = func(p Path, part message.Part) error {
		if part.IsMultipart() {
			return nil
		}
		return w(p, part)
	}
	return lw.Walk(msg)
}

// WalkContainers calls the PartWalker for each multipart or encapsulated
// part. Returning ErrSkipParts skips the containers nested below it.
func (w PartWalker) WalkContainers(msg message.Part) error {
	var cw PartWalker = func(p Path, part message.Part) error {
		if !part.IsMultipart() {
			return nil
		}
		return w(p, part)
	}
	return cw.Walk(msg)
}
