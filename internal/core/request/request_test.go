package request

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	for _, in := range []string{"get", "POST", " put ", "Patch", "delete"} {
		m, err := ParseMethod(in)
		require.NoError(t, err, in)
		assert.True(t, m.Valid())
	}

	_, err := ParseMethod("HEAD")
	assert.Error(t, err)
}

func TestMethod_SupportsBody(t *testing.T) {
	want := map[Method]bool{
		MethodGet:    false,
		MethodPost:   true,
		MethodPut:    true,
		MethodPatch:  true,
		MethodDelete: false,
	}
	for m, supports := range want {
		assert.Equal(t, supports, m.SupportsBody(), string(m))
	}
}

func TestMethod_NextWraps(t *testing.T) {
	m := MethodGet
	for range Methods {
		m = m.Next()
	}
	assert.Equal(t, MethodGet, m)
	assert.Equal(t, MethodGet, Method("TRACE").Next())
}

func TestRequest_ActiveHeadersSkipsIncompleteRows(t *testing.T) {
	r := Request{Headers: []KeyValue{
		{Key: "Accept", Value: "application/json"},
		{Key: "", Value: "orphan"},
		{Key: "X-Empty", Value: ""},
		{Key: "X-Trace", Value: "1"},
	}}

	assert.Equal(t, []KeyValue{
		{Key: "Accept", Value: "application/json"},
		{Key: "X-Trace", Value: "1"},
	}, r.ActiveHeaders())
	assert.Len(t, r.Headers, 4, "incomplete rows stay in the list")
}

func TestRequest_SendsBody(t *testing.T) {
	assert.False(t, Request{Method: MethodGet, Body: `{"a":1}`}.SendsBody())
	assert.False(t, Request{Method: MethodPost}.SendsBody())
	assert.True(t, Request{Method: MethodPatch, Body: "x"}.SendsBody())
}

func TestRequest_CloneDoesNotAlias(t *testing.T) {
	orig := DefaultRequest()
	cp := orig.Clone()
	cp.Headers[0].Value = "text/plain"

	assert.Equal(t, "application/json", orig.Headers[0].Value)
}

func TestHistoryItem_JSONShape(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	item := NewHistoryItem(Request{
		URL:     "https://example.com",
		Method:  MethodPost,
		Headers: []KeyValue{{Key: "A", Value: "b"}},
		Body:    "{bad json",
	}, at)

	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"url": "https://example.com",
		"method": "POST",
		"headers": [{"key": "A", "value": "b"}],
		"body": "{bad json",
		"timestamp": "2024-01-01T09:00:00Z"
	}`, string(data))

	var back HistoryItem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, item.Request, back.Request)
	assert.True(t, item.Timestamp.Equal(back.Timestamp))
}

func TestHistoryItem_ToRequestCopies(t *testing.T) {
	item := NewHistoryItem(DefaultRequest(), time.Now())
	r := item.ToRequest()
	r.Headers[0].Key = "changed"

	assert.Equal(t, "Content-Type", item.Headers[0].Key)
}

func TestCategoryOf(t *testing.T) {
	cases := map[int]StatusCategory{
		0:   StatusUnknown,
		101: StatusUnknown,
		200: StatusSuccess,
		204: StatusSuccess,
		301: StatusUnknown,
		404: StatusClientError,
		499: StatusClientError,
		500: StatusServerError,
		503: StatusServerError,
		600: StatusUnknown,
	}
	for code, want := range cases {
		assert.Equal(t, want, CategoryOf(code), "status %d", code)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 bytes", FormatSize(0))
	assert.Equal(t, "21 bytes", FormatSize(21))
}

func TestRequest_Payload(t *testing.T) {
	p, valid := Request{Method: MethodGet, Body: `{"a":1}`}.Payload()
	assert.Nil(t, p)
	assert.True(t, valid)

	p, valid = Request{Method: MethodPost, Body: "{\n  \"a\": [1, 2]\n}"}.Payload()
	assert.Equal(t, `{"a":[1,2]}`, string(p))
	assert.True(t, valid)

	p, valid = Request{Method: MethodPut, Body: "{bad json"}.Payload()
	assert.Equal(t, "{}", string(p))
	assert.False(t, valid)

	p, _ = Request{Method: MethodPatch}.Payload()
	assert.Nil(t, p)

	p, valid = Request{Method: MethodPost, Body: " null\n"}.Payload()
	assert.Nil(t, p, "null parses to no body")
	assert.True(t, valid)
}
