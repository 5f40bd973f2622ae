package encoding_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email2dict/message/header/encoding"
)

// Εν αρχη ητο ο Λογος, και ο Λογος ητο παρα τω Θεω, και Θεος ητο ο Λογος.

var greekText = []byte{
	0xc5, 0xed, 0x20, 0xe1, 0xf1, 0xf7, 0xe7, 0x20, 0xe7, 0xf4, 0xef, 0x20,
	0xef, 0x20, 0xcb, 0xef, 0xe3, 0xef, 0xf2, 0x2c, 0x20, 0xea, 0xe1, 0xe9,
	0x20, 0xef, 0x20, 0xcb, 0xef, 0xe3, 0xef, 0xf2, 0x20, 0xe7, 0xf4, 0xef,
	0x20, 0xf0, 0xe1, 0xf1, 0xe1, 0x20, 0xf4, 0xf9, 0x20, 0xc8, 0xe5, 0xf9,
	0x2c, 0x20, 0xea, 0xe1, 0xe9, 0x20, 0xc8, 0xe5, 0xef, 0xf2, 0x20, 0xe7,
	0xf4, 0xef, 0x20, 0xef, 0x20, 0xcb, 0xef, 0xe3, 0xef, 0xf2, 0x2e,
}

const greekUnicode = "Εν αρχη ητο ο Λογος, και ο Λογος ητο παρα τω Θεω, και Θεος ητο ο Λογος."

func TestDecode(t *testing.T) {
	t.Parallel()

	s, err := encoding.Decode("ISO-8859-7", greekText)
	require.NoError(t, err)
	assert.Equal(t, greekUnicode, s)

	s, err = encoding.Decode("", []byte(greekUnicode))
	require.NoError(t, err)
	assert.Equal(t, greekUnicode, s)

	s, err = encoding.Decode("UTF-8", []byte("utf-\xe2\x98\x83"))
	require.NoError(t, err)
	assert.Equal(t, "utf-☃", s)

	_, err = encoding.Decode("utf-8", greekText)
	assert.ErrorIs(t, err, encoding.ErrInvalidBytes)

	_, err = encoding.Decode("us-ascii", []byte("caf\xe9"))
	assert.ErrorIs(t, err, encoding.ErrInvalidBytes)

	_, err = encoding.Decode("x-no-such-charset", []byte("abc"))
	var unknown *encoding.UnknownCharsetError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "x-no-such-charset", unknown.Charset)
}

func TestDecodeLossy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, greekUnicode, encoding.DecodeLossy("iso-8859-7", greekText))
	assert.Equal(t, "caf�", encoding.DecodeLossy("us-ascii", []byte("caf\xe9")))
	assert.Equal(t, "caf�", encoding.DecodeLossy("utf-8", []byte("caf\xe9")))
	assert.Equal(t, "plain", encoding.DecodeLossy("x-bogus", []byte("plain")))
}

func TestSupported(t *testing.T) {
	t.Parallel()

	assert.True(t, encoding.Supported(""))
	assert.True(t, encoding.Supported("utf-8"))
	assert.True(t, encoding.Supported("iso-8859-1"))
	assert.False(t, encoding.Supported("x-klingon"))
}

func TestCharsetReader(t *testing.T) {
	t.Parallel()

	r, err := encoding.CharsetReader("iso-8859-7", strings.NewReader(string(greekText)))
	require.NoError(t, err)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, greekUnicode, string(b))
}
