package record_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email2dict/message"
	"github.com/zostay/go-email2dict/message/header"
	"github.com/zostay/go-email2dict/record"
)

func extract(t *testing.T, src string, opts ...record.Option) (*record.Record, error) {
	t.Helper()

	msg, err := message.Parse(strings.NewReader(src))
	require.NoError(t, err)

	return record.Extract(msg, opts...)
}

func mustExtract(t *testing.T, src string, opts ...record.Option) *record.Record {
	t.Helper()

	r, err := extract(t, src, opts...)
	require.NoError(t, err)
	return r
}

func headerValue(t *testing.T, r *record.Record, name string) any {
	t.Helper()

	v, ok := r.Headers.Get(name)
	require.True(t, ok, "header %s is missing", name)
	return v
}

func TestExtract_AddressGrouping(t *testing.T) {
	t.Parallel()

	r := mustExtract(t, "To: a@example.com, Team: b@example.com, c@example.com;\n\nbody\n")

	assert.Equal(t, record.AddressList{
		record.Address{Address: "a@example.com"},
		record.Group{
			Group: "Team",
			Addresses: []record.Address{
				{Address: "b@example.com"},
				{Address: "c@example.com"},
			},
		},
	}, headerValue(t, r, "to"))

	js, err := json.Marshal(headerValue(t, r, "to"))
	require.NoError(t, err)
	assert.Equal(t,
		`[{"realname":"","address":"a@example.com"},{"group":"Team","addresses":[{"realname":"","address":"b@example.com"},{"realname":"","address":"c@example.com"}]}]`,
		string(js))
}

func TestExtract_AddressListAcrossFields(t *testing.T) {
	t.Parallel()

	const src = "Cc: One: a@example.com;, b@example.com\n" +
		"Subject: x\n" +
		"CC: c@example.com, Two: d@example.com;\n" +
		"\n"

	r := mustExtract(t, src)
	assert.Equal(t, []string{"cc", "subject"}, r.Headers.Names())
	assert.Equal(t, record.AddressList{
		record.Group{Group: "One", Addresses: []record.Address{{Address: "a@example.com"}}},
		record.Address{Address: "b@example.com"},
		record.Address{Address: "c@example.com"},
		record.Group{Group: "Two", Addresses: []record.Address{{Address: "d@example.com"}}},
	}, headerValue(t, r, "cc"))
}

func TestExtract_Cardinality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src    string
		header string
		got    int
	}{
		{"Subject: one\nSubject: two\n\n", "subject", 2},
		{"Message-ID: <a@x>\nMessage-ID: <b@x>\n\n", "message-id", 2},
		{"Date: Tue, 14 Mar 2023 10:15:00 -0400\nDate: Tue, 14 Mar 2023 10:16:00 -0400\n\n", "date", 2},
		{"Content-Type: text/plain\nContent-Type: text/html\n\n", "content-type", 2},
		{"Sender: a@example.com\nSender: b@example.com\n\n", "sender", 2},
		{"Content-Disposition: inline\nContent-Disposition: attachment\n\n", "content-disposition", 2},
	}

	for _, test := range tests {
		r, err := extract(t, test.src)
		assert.Nil(t, r)

		var cerr *record.CardinalityError
		if assert.ErrorAs(t, err, &cerr, test.src) {
			assert.Equal(t, test.header, cerr.Header)
			assert.Equal(t, test.got, cerr.Got)
			assert.Equal(t, "exactly one", cerr.Want)
		}
	}
}

func TestExtract_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src    string
		header string
		body   string
	}{
		{"Date: someday\n\n", "date", "someday"},
		{"Resent-Date: Tue, 14 Mar 2023 10:15:00 -0400\nResent-Date: never\n\n", "resent-date", "never"},
		{"Content-Type: text\n\n", "content-type", "text"},
		{"Content-Disposition: ; filename=x\n\n", "content-disposition", "; filename=x"},
		{"Sender: a@example.com, b@example.com\n\n", "sender", "a@example.com, b@example.com"},
		{"Sender: Team: a@example.com;\n\n", "sender", "Team: a@example.com;"},
		{"Resent-Sender: a@example.com\nResent-Sender: b@example.com, c@example.com\n\n", "resent-sender", "b@example.com, c@example.com"},
	}

	for _, test := range tests {
		r, err := extract(t, test.src)
		assert.Nil(t, r)

		var merr *record.MalformedHeaderError
		if assert.ErrorAs(t, err, &merr, test.src) {
			assert.Equal(t, test.header, merr.Header)
			assert.Equal(t, test.body, merr.Body)
		}
	}

	_, err := extract(t, "Sender: a@example.com, b@example.com\n\n")
	assert.ErrorIs(t, err, header.ErrNotSingleAddress)
}

func TestExtract_MalformedMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{
			"Content-Disposition: ; filename=a\n\n",
			`header content-disposition: malformed value "; filename=a": malformed parameter`,
		},
		{
			"Content-Disposition: inline; filename\n\n",
			`header content-disposition: malformed value "inline; filename": malformed parameter`,
		},
	}

	for _, test := range tests {
		_, err := extract(t, test.src)
		require.Error(t, err, test.src)
		assert.Equal(t, test.want, err.Error())
		assert.Equal(t, 1, strings.Count(err.Error(), "filename"), test.src)
	}
}

func TestExtract_Dates(t *testing.T) {
	t.Parallel()

	const src = "Date: Tue, 14 Mar 2023 10:15:00 -0400\n" +
		"Resent-Date: Mon, 13 Mar 2023 09:00:00 +0000\n" +
		"Resent-Date: Wed, 15 Mar 2023 09:00:00 +0000\n" +
		"Orig-Date: Tue, 14 Mar 2023 10:15:00 -0400\n" +
		"\n"

	r := mustExtract(t, src)

	d, ok := headerValue(t, r, "date").(time.Time)
	require.True(t, ok)
	assert.True(t, d.Equal(time.Date(2023, 3, 14, 14, 15, 0, 0, time.UTC)))

	rds, ok := headerValue(t, r, "resent-date").([]time.Time)
	require.True(t, ok)
	require.Len(t, rds, 2)
	assert.Equal(t, 13, rds[0].Day())
	assert.Equal(t, 15, rds[1].Day())

	_, ok = headerValue(t, r, "orig-date").(time.Time)
	assert.True(t, ok)
}

func TestExtract_SingleAddresses(t *testing.T) {
	t.Parallel()

	const src = "Sender: Steve <steve@example.com>\n" +
		"Resent-Sender: a@example.com\n" +
		"Resent-Sender: b@example.com\n" +
		"\n"

	r := mustExtract(t, src)
	assert.Equal(t, record.Address{Realname: "Steve", Address: "steve@example.com"}, headerValue(t, r, "sender"))
	assert.Equal(t, []record.Address{
		{Address: "a@example.com"},
		{Address: "b@example.com"},
	}, headerValue(t, r, "resent-sender"))
}

func TestExtract_StringsAndUnrecognized(t *testing.T) {
	t.Parallel()

	const src = "Subject: =?utf-8?q?Caf=C3=A9?= menu\n" +
		"X-Tag: one\n" +
		"Received: from a\n" +
		"x-tag: =?utf-8?b?dHfDtg==?=\n" +
		"Content-Type: TEXT/Plain; charset=us-ascii\n" +
		"Content-Disposition: Inline; filename=\"menu.txt\"; size=12\n" +
		"\n"

	r := mustExtract(t, src)
	assert.Equal(t, []string{"subject", "x-tag", "received", "content-type", "content-disposition"}, r.Headers.Names())
	assert.Equal(t, "Café menu", headerValue(t, r, "subject"))
	assert.Equal(t, []string{"one", "twö"}, headerValue(t, r, "x-tag"))
	assert.Equal(t, []string{"from a"}, headerValue(t, r, "received"))
	assert.Equal(t, "text/plain", headerValue(t, r, "content-type"))
	assert.Equal(t, record.Disposition{
		Disposition: "inline",
		Params:      map[string]string{"filename": "menu.txt", "size": "12"},
	}, headerValue(t, r, "content-disposition"))
}

func TestExtract_DroppedHeaders(t *testing.T) {
	t.Parallel()

	const src = "MIME-Version: 1.0\n" +
		"Content-Transfer-Encoding: base64\n" +
		"mime-version: 2.0\n" +
		"Subject: kept\n" +
		"\n" +
		"aGVsbG8=\n"

	r := mustExtract(t, src)
	assert.Equal(t, []string{"subject"}, r.Headers.Names())
	assert.Equal(t, "hello", r.Content)

	js, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(string(js)), "mime-version")
	assert.NotContains(t, strings.ToLower(string(js)), "content-transfer-encoding")
}

func TestExtract_Multipart(t *testing.T) {
	t.Parallel()

	const src = "Subject: three\n" +
		"Content-Type: multipart/mixed; boundary=b\n" +
		"\n" +
		"--b\n" +
		"Content-Type: text/plain\n" +
		"X-N: 1\n" +
		"\n" +
		"first\n" +
		"--b\n" +
		"X-N: 2\n" +
		"\n" +
		"second\n" +
		"--b\n" +
		"Content-Type: image/png\n" +
		"X-N: 3\n" +
		"\n" +
		"\x89PNG\n" +
		"--b--\n"

	for _, opts := range [][]record.Option{nil, {record.WithParallelParts()}} {
		r := mustExtract(t, src, opts...)

		parts := r.Parts()
		require.Len(t, parts, 3)
		for i, p := range parts {
			assert.Equal(t, []string{string(rune('1' + i))}, headerValue(t, p, "x-n"))
			assert.Nil(t, p.Preamble)
			assert.Nil(t, p.Epilogue)
		}

		assert.Equal(t, "first", parts[0].Content)
		assert.Equal(t, "second", parts[1].Content)
		assert.Equal(t, []byte("\x89PNG"), parts[2].Content)
		assert.Nil(t, r.Preamble)
		assert.Nil(t, r.Epilogue)
	}
}

func TestExtract_File(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/mixed.eml")
	require.NoError(t, err)
	defer f.Close()

	r, err := record.ExtractReader(f)
	require.NoError(t, err)

	assert.Equal(t, []string{"from", "to", "subject", "content-type"}, r.Headers.Names())
	require.NotNil(t, r.Preamble)
	assert.Equal(t, "This is a multi-part message in MIME format.", *r.Preamble)
	require.NotNil(t, r.Epilogue)
	assert.Equal(t, "That is all.\r\n", *r.Epilogue)

	parts := r.Parts()
	require.Len(t, parts, 3)

	assert.Equal(t, "Café at noon?", parts[0].Content)
	assert.Equal(t, []string{"content-type"}, parts[0].Headers.Names())

	fwd := parts[1].Parts()
	require.Len(t, fwd, 1)
	assert.Equal(t, "Fwd", headerValue(t, fwd[0], "subject"))
	assert.Equal(t, "Forwarded body.", fwd[0].Content)

	assert.Equal(t, []byte{0, 1, 2, 3}, parts[2].Content)
	assert.Equal(t, record.Disposition{
		Disposition: "attachment",
		Params:      map[string]string{"filename": "data.bin"},
	}, headerValue(t, parts[2], "content-disposition"))
}

func TestExtract_SmallChunks(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile("testdata/mixed.eml")
	require.NoError(t, err)

	want := mustExtract(t, string(raw))
	wantJSON, err := json.Marshal(want)
	require.NoError(t, err)

	// part headers are longer than every chunk size below
	for _, n := range []int{8, 16, 32, 64} {
		msg, err := message.Parse(strings.NewReader(string(raw)),
			message.WithChunkSize(n), message.WithUnlimitedRecursion())
		require.NoError(t, err, "chunk size %d", n)

		r, err := record.Extract(msg)
		require.NoError(t, err, "chunk size %d", n)

		assert.Equal(t, []string{"content-type"}, r.Parts()[0].Headers.Names(), "chunk size %d", n)
		assert.Equal(t, []byte{0, 1, 2, 3}, r.Parts()[2].Content, "chunk size %d", n)

		js, err := json.Marshal(r)
		require.NoError(t, err)
		assert.JSONEq(t, string(wantJSON), string(js), "chunk size %d", n)
	}
}

func TestExtract_PartError(t *testing.T) {
	t.Parallel()

	const src = "Content-Type: multipart/mixed; boundary=outer\n" +
		"\n" +
		"--outer\n" +
		"\n" +
		"fine\n" +
		"--outer\n" +
		"Content-Type: multipart/mixed; boundary=inner\n" +
		"\n" +
		"--inner\n" +
		"Subject: a\n" +
		"Subject: b\n" +
		"\n" +
		"bad\n" +
		"--inner--\n" +
		"--outer--\n"

	for _, opts := range [][]record.Option{nil, {record.WithParallelParts()}} {
		_, err := extract(t, src, opts...)

		var perr *record.PartError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, []int{1, 0}, perr.Path)
		assert.Equal(t, "1.0", perr.PathString())

		var cerr *record.CardinalityError
		assert.ErrorAs(t, err, &cerr)
	}

	_, err := extract(t, src, record.WithMaxDepth(1))
	assert.ErrorIs(t, err, record.ErrTooDeep)

	_, err = extract(t, src, record.WithMaxDepth(2))
	assert.NotErrorIs(t, err, record.ErrTooDeep)
}

func TestExtract_Charsets(t *testing.T) {
	t.Parallel()

	r := mustExtract(t, "Content-Type: text/plain; charset=x-unknown\n\nplain \xff\n")
	assert.Equal(t, "plain �\n", r.Content)

	r = mustExtract(t, "Content-Type: text/plain; charset=iso-8859-7\n\n\xc5\xed\n")
	assert.Equal(t, "Εν\n", r.Content)

	r = mustExtract(t, "Content-Type: application/json\n\n{}\n")
	assert.Equal(t, []byte("{}\n"), r.Content)

	r = mustExtract(t, "Subject: empty\n")
	assert.Equal(t, "", r.Content)
}

func TestExtract_AlreadyDecoded(t *testing.T) {
	t.Parallel()

	const src = "Content-Type: text/plain; charset=utf-8\n" +
		"Content-Transfer-Encoding: quoted-printable\n" +
		"\n" +
		"caf=C3=A9 =3D good\n"

	msg, err := message.Parse(strings.NewReader(src), message.DecodeTransferEncoding())
	require.NoError(t, err)

	r, err := record.Extract(msg)
	require.NoError(t, err)
	assert.Equal(t, "café = good\n", r.Content)
}
