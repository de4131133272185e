// Package curl turns a pasted curl command back into a request.
package curl

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/sadopc/apitester/internal/core/request"
)

// ParseCurl parses a curl command string into a request. Flags that only
// change curl's own output are ignored; -u becomes a basic Authorization
// header.
func ParseCurl(input string) (request.Request, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return request.Request{}, fmt.Errorf("empty input")
	}

	// Handle line continuations
	input = strings.ReplaceAll(input, "\\\r\n", " ")
	input = strings.ReplaceAll(input, "\\\n", " ")

	args := tokenize(input)
	if len(args) == 0 {
		return request.Request{}, fmt.Errorf("empty command")
	}

	// Strip leading "curl" if present
	if strings.EqualFold(args[0], "curl") {
		args = args[1:]
	}

	req := request.Request{Headers: []request.KeyValue{}}
	method := ""
	next := func(i *int) (string, bool) {
		*i++
		if *i < len(args) {
			return args[*i], true
		}
		return "", false
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-X", "--request":
			if v, ok := next(&i); ok {
				method = v
			}
		case "-H", "--header":
			if v, ok := next(&i); ok {
				if kv, ok := parseHeader(v); ok {
					req.Headers = append(req.Headers, kv)
				}
			}
		case "-d", "--data", "--data-raw", "--data-binary":
			if v, ok := next(&i); ok {
				req.Body = v
			}
		case "-u", "--user":
			if v, ok := next(&i); ok {
				req.Headers = append(req.Headers, request.KeyValue{
					Key:   "Authorization",
					Value: "Basic " + base64.StdEncoding.EncodeToString([]byte(v)),
				})
			}
		case "-A", "--user-agent":
			if v, ok := next(&i); ok {
				req.Headers = append(req.Headers, request.KeyValue{Key: "User-Agent", Value: v})
			}
		case "-o", "--output":
			i++ // skip the output filename
		case "--compressed", "-k", "--insecure", "-v", "--verbose", "-s", "--silent",
			"-S", "--show-error", "-L", "--location", "-i", "--include":
		default:
			// Positional argument = URL
			if !strings.HasPrefix(arg, "-") && req.URL == "" {
				req.URL = arg
			}
		}
	}

	if req.URL == "" {
		return request.Request{}, fmt.Errorf("no URL found in curl command")
	}

	switch {
	case method != "":
		m, err := request.ParseMethod(method)
		if err != nil {
			return request.Request{}, err
		}
		req.Method = m
	case req.Body != "":
		req.Method = request.MethodPost
	default:
		req.Method = request.MethodGet
	}

	return req, nil
}

// tokenize splits a shell command into tokens, handling single and double quotes.
func tokenize(input string) []string {
	var tokens []string
	var current strings.Builder
	inSingle := false
	inDouble := false
	escaped := false
	// quoted empty strings still count as a token
	started := false

	flush := func() {
		if current.Len() > 0 || started {
			tokens = append(tokens, current.String())
			current.Reset()
		}
		started = false
	}

	for _, r := range input {
		if escaped {
			current.WriteRune(r)
			escaped = false
			continue
		}

		switch {
		case r == '\\' && !inSingle:
			escaped = true
		case r == '\'' && !inDouble:
			inSingle = !inSingle
			started = true
		case r == '"' && !inSingle:
			inDouble = !inDouble
			started = true
		case (r == ' ' || r == '\t' || r == '\n') && !inSingle && !inDouble:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// parseHeader parses "Key: Value". Rows without a key are dropped.
func parseHeader(s string) (request.KeyValue, bool) {
	key, value, _ := strings.Cut(s, ":")
	key = strings.TrimSpace(key)
	if key == "" {
		return request.KeyValue{}, false
	}
	return request.KeyValue{Key: key, Value: strings.TrimSpace(value)}, true
}
