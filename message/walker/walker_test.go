package walker_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email2dict/message"
	"github.com/zostay/go-email2dict/message/walker"
)

const msg = `X-Where: A
Content-type: multipart/mixed; boundary=aaaaaaa

--aaaaaaa
X-Where: B
Content-type: multipart/mixed; boundary=bbbbbbb

--bbbbbbb
X-Where: E
Content-type: text/plain

--bbbbbbb
X-Where: F
Content-type: text/plain

--bbbbbbb--
--aaaaaaa
X-Where: C
Content-type: multipart/mixed; boundary=ccccccc

--ccccccc
X-Where: G
Content-type: text/plain

--ccccccc
X-Where: H
Content-type: text/plain

--ccccccc--
--aaaaaaa
X-Where: D
Content-type: multipart/mixed; boundary=ddddddd

--ddddddd
X-Where: I
Content-type: text/plain

--ddddddd
X-Where: J
Content-type: text/plain

--ddddddd--
--aaaaaaa--
`

type visit struct {
	where string
	path  string
}

func collect(t *testing.T, seen *[]visit) walker.PartWalker {
	return func(p walker.Path, part message.Part) error {
		where, err := part.GetHeader().Get("X-Where")
		assert.NoError(t, err)
		assert.Equal(t, len(p), p.Depth())
		*seen = append(*seen, visit{where, p.String()})
		return nil
	}
}

func parseTestMessage(t *testing.T) message.Part {
	t.Helper()

	m, err := message.Parse(strings.NewReader(msg))
	require.NoError(t, err)
	return m
}

func TestPartWalker_Walk(t *testing.T) {
	t.Parallel()

	var seen []visit
	err := collect(t, &seen).Walk(parseTestMessage(t))
	assert.NoError(t, err)
	assert.Equal(t, []visit{
		{"A", ""},
		{"B", "0"}, {"E", "0.0"}, {"F", "0.1"},
		{"C", "1"}, {"G", "1.0"}, {"H", "1.1"},
		{"D", "2"}, {"I", "2.0"}, {"J", "2.1"},
	}, seen)
}

func TestPartWalker_WalkLeaves(t *testing.T) {
	t.Parallel()

	var seen []visit
	err := collect(t, &seen).WalkLeaves(parseTestMessage(t))
	assert.NoError(t, err)
	assert.Equal(t, []visit{
		{"E", "0.0"}, {"F", "0.1"},
		{"G", "1.0"}, {"H", "1.1"},
		{"I", "2.0"}, {"J", "2.1"},
	}, seen)
}

func TestPartWalker_WalkContainers(t *testing.T) {
	t.Parallel()

	var seen []visit
	err := collect(t, &seen).WalkContainers(parseTestMessage(t))
	assert.NoError(t, err)
	assert.Equal(t, []visit{{"A", ""}, {"B", "0"}, {"C", "1"}, {"D", "2"}}, seen)
}

func TestPartWalker_WalkStops(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	var seen []string
	var pw walker.PartWalker = func(_ walker.Path, part message.Part) error {
		where, _ := part.GetHeader().Get("X-Where")
		seen = append(seen, where)
		if where == "F" {
			return stop
		}
		return nil
	}

	err := pw.Walk(parseTestMessage(t))
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"A", "B", "E", "F"}, seen)
}

func TestPartWalker_SkipParts(t *testing.T) {
	t.Parallel()

	var seen []string
	var pw walker.PartWalker = func(_ walker.Path, part message.Part) error {
		where, _ := part.GetHeader().Get("X-Where")
		seen = append(seen, where)
		if where == "B" || where == "D" {
			return walker.ErrSkipParts
		}
		return nil
	}

	err := pw.Walk(parseTestMessage(t))
	assert.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "G", "H", "D"}, seen)
}

func TestPath(t *testing.T) {
	t.Parallel()

	p, err := walker.ParsePath("2.0")
	require.NoError(t, err)
	assert.Equal(t, walker.Path{2, 0}, p)
	assert.Equal(t, "2.0", p.String())
	assert.Equal(t, walker.Path{2, 0, 5}, p.Child(5))
	assert.Equal(t, walker.Path{2, 0}, p)

	p, err = walker.ParsePath("")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Depth())
	assert.Equal(t, "", p.String())

	for _, bad := range []string{"1.", "a", "-1", "1..2"} {
		_, err = walker.ParsePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()

	m := parseTestMessage(t)

	part, ok := walker.Find(m, walker.Path{1, 1})
	require.True(t, ok)
	where, err := part.GetHeader().Get("X-Where")
	require.NoError(t, err)
	assert.Equal(t, "H", where)

	part, ok = walker.Find(m, walker.Path{})
	require.True(t, ok)
	assert.Same(t, m, part)

	_, ok = walker.Find(m, walker.Path{3})
	assert.False(t, ok)

	_, ok = walker.Find(m, walker.Path{0, 0, 0})
	assert.False(t, ok)
}
