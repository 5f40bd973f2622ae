package record_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-email2dict/record"
)

func TestRecord_MarshalJSON(t *testing.T) {
	t.Parallel()

	const src = "Subject: Hi\n" +
		"To: a@example.com, Team: b@example.com, c@example.com;\n" +
		"X-Mailer: test\n" +
		"MIME-Version: 1.0\n" +
		"Date: Tue, 14 Mar 2023 10:15:00 -0400\n" +
		"\n" +
		"body\n"

	r := mustExtract(t, src)

	js, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"headers":{`+
		`"subject":"Hi",`+
		`"to":[{"realname":"","address":"a@example.com"},{"group":"Team","addresses":[{"realname":"","address":"b@example.com"},{"realname":"","address":"c@example.com"}]}],`+
		`"x-mailer":["test"],`+
		`"date":"2023-03-14T10:15:00-04:00"},`+
		`"preamble":null,"content":"body\n","epilogue":null}`,
		string(js))
}

func TestRecord_MarshalJSONMultipart(t *testing.T) {
	t.Parallel()

	const src = "Content-Type: multipart/mixed; boundary=b\n" +
		"\n" +
		"preamble\n" +
		"--b\n" +
		"\n" +
		"one\n" +
		"--b--\n" +
		"epilogue\n"

	r := mustExtract(t, src)

	js, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"headers":{"content-type":"multipart/mixed"},`+
		`"preamble":"preamble",`+
		`"content":[{"headers":{},"preamble":null,"content":"one","epilogue":null}],`+
		`"epilogue":"epilogue\n"}`,
		string(js))
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	r := mustExtract(t, "X-B: 1\nX-A: 2\nx-b: 3\n\n")

	assert.Equal(t, 2, r.Headers.Len())
	names := r.Headers.Names()
	assert.Equal(t, []string{"x-b", "x-a"}, names)

	names[0] = "changed"
	assert.Equal(t, []string{"x-b", "x-a"}, r.Headers.Names())

	v, ok := r.Headers.Get("x-b")
	assert.True(t, ok)
	assert.Equal(t, []string{"1", "3"}, v)

	_, ok = r.Headers.Get("X-B")
	assert.False(t, ok)

	js, err := json.Marshal(r.Headers)
	require.NoError(t, err)
	assert.Equal(t, `{"x-b":["1","3"],"x-a":["2"]}`, string(js))
}

func TestClassOf(t *testing.T) {
	t.Parallel()

	tests := map[string]record.Class{
		"Subject":             record.ClassUniqueString,
		"message-id":          record.ClassUniqueString,
		"FROM":                record.ClassAddressList,
		"reply-to":            record.ClassAddressList,
		"resent-bcc":          record.ClassAddressList,
		"content-type":        record.ClassContentType,
		"date":                record.ClassUniqueDate,
		"orig-date":           record.ClassUniqueDate,
		"resent-date":         record.ClassDates,
		"sender":              record.ClassUniqueSingleAddress,
		"resent-sender":       record.ClassSingleAddresses,
		"content-disposition": record.ClassContentDisposition,
	}

	for name, want := range tests {
		c, ok := record.ClassOf(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, c, name)
	}

	_, ok := record.ClassOf("x-mailer")
	assert.False(t, ok)

	assert.Equal(t, "unique single address", record.ClassUniqueSingleAddress.String())
	assert.Equal(t, "unknown", record.Class(0).String())

	assert.True(t, record.IsDropped("MIME-Version"))
	assert.True(t, record.IsDropped("content-transfer-encoding"))
	assert.False(t, record.IsDropped("subject"))
}
