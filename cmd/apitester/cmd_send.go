package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/import/curl"
)

type sendOptions struct {
	method    string
	headers   []string
	data      string
	output    string
	query     string
	noHistory bool
	curl      string
}

func newSendCmd(cfg func() config.Config) *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send [url]",
		Short: "Send one request and print the response",
		Long: `Send one request and print the normalized response.

Connection failures are printed as a response with status 0; they do not
make the command fail.

Examples:
  apitester send https://jsonplaceholder.typicode.com/posts/1
  apitester send https://httpbin.org/post -X POST -d '{"a":1}'
  apitester send https://api.example.com/users -H 'Accept: application/json' --query '0.name'
  apitester send --curl "curl -X DELETE https://api.example.com/users/1"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(args)
			if err != nil {
				return err
			}
			if err := validOutput(opts.output); err != nil {
				return err
			}

			sess, err := openSession(cfg())
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var resp request.Response
			if opts.noHistory {
				resp = sess.client.Send(ctx, req)
			} else {
				sess.store.SetRequest(req)
				if resp, err = sess.dispatch(ctx); err != nil {
					return err
				}
			}
			return printResponse(cmd.OutOrStdout(), resp, opts.output, opts.query)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.method, "method", "X", "GET", "HTTP method: GET, POST, PUT, PATCH or DELETE")
	f.StringArrayVarP(&opts.headers, "header", "H", nil, "header as 'Key: Value' (repeatable)")
	f.StringVarP(&opts.data, "data", "d", "", "JSON request body (POST, PUT and PATCH only)")
	f.StringVarP(&opts.output, "output", "o", outputText, "output format: text, json or markup")
	f.StringVar(&opts.query, "query", "", "gjson path selecting part of the response body")
	f.BoolVar(&opts.noHistory, "no-history", false, "do not record the request in the history")
	f.StringVar(&opts.curl, "curl", "", "take the request from a curl command instead of url and flags")
	return cmd
}

func (o sendOptions) request(args []string) (request.Request, error) {
	if o.curl != "" {
		if len(args) > 0 {
			return request.Request{}, fmt.Errorf("use either a url or --curl, not both")
		}
		return curl.ParseCurl(o.curl)
	}
	if len(args) == 0 {
		return request.Request{}, fmt.Errorf("requires a url or --curl")
	}
	url := strings.TrimSpace(args[0])
	if url == "" {
		return request.Request{}, errNoURL
	}

	method, err := request.ParseMethod(o.method)
	if err != nil {
		return request.Request{}, err
	}
	headers := make([]request.KeyValue, 0, len(o.headers))
	for _, h := range o.headers {
		kv, err := parseHeader(h)
		if err != nil {
			return request.Request{}, err
		}
		headers = append(headers, kv)
	}
	return request.Request{
		URL:     url,
		Method:  method,
		Headers: headers,
		Body:    o.data,
	}, nil
}

func parseHeader(s string) (request.KeyValue, error) {
	key, value, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(key) == "" {
		return request.KeyValue{}, fmt.Errorf("invalid header %q (want 'Key: Value')", s)
	}
	return request.KeyValue{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}, nil
}
