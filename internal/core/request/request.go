package request

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
)

// Method is one of the HTTP methods the composer can send.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// Methods lists the supported methods in the order the UI offers them.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}

// ParseMethod returns the Method matching s, ignoring case.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unsupported method %q", s)
	}
	return m, nil
}

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// SupportsBody reports whether requests with this method carry a body.
func (m Method) SupportsBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// Next returns the method after m in Methods, wrapping around.
func (m Method) Next() Method {
	for i, known := range Methods {
		if known == m {
			return Methods[(i+1)%len(Methods)]
		}
	}
	return MethodGet
}

// KeyValue is one header row. Either field may be empty while it is edited.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Complete reports whether both key and value are set.
func (kv KeyValue) Complete() bool {
	return kv.Key != "" && kv.Value != ""
}

// Request describes one outbound HTTP request.
type Request struct {
	URL     string     `json:"url"`
	Method  Method     `json:"method"`
	Headers []KeyValue `json:"headers"`
	Body    string     `json:"body"`
}

// DefaultRequest returns the request shown when the composer starts.
func DefaultRequest() Request {
	return Request{
		URL:     "https://jsonplaceholder.typicode.com/posts/1",
		Method:  MethodGet,
		Headers: []KeyValue{{Key: "Content-Type", Value: "application/json"}},
		Body:    "{\n  \"title\": \"foo\",\n  \"body\": \"bar\",\n  \"userId\": 1\n}",
	}
}

// Clone returns a copy of r that shares no memory with it.
func (r Request) Clone() Request {
	headers := make([]KeyValue, len(r.Headers))
	copy(headers, r.Headers)
	r.Headers = headers
	return r
}

// ActiveHeaders returns the header rows that are sent, in entry order.
func (r Request) ActiveHeaders() []KeyValue {
	var out []KeyValue
	for _, h := range r.Headers {
		if h.Complete() {
			out = append(out, h)
		}
	}
	return out
}

// SendsBody reports whether the body is attached when r is dispatched.
func (r Request) SendsBody() bool {
	return r.Method.SupportsBody() && r.Body != ""
}

// Payload returns the bytes sent as the body, or nil when no body is sent.
// A body that is not valid JSON is replaced by an empty object and valid
// reports false. A body of literal null sends nothing.
func (r Request) Payload() (payload []byte, valid bool) {
	if !r.SendsBody() {
		return nil, true
	}
	raw := []byte(r.Body)
	if !json.Valid(raw) {
		return []byte("{}"), false
	}
	compact := pretty.Ugly(raw)
	if string(compact) == "null" {
		return nil, true
	}
	return compact, true
}
