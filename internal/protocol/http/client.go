package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/pretty"
	"golang.org/x/net/proxy"

	"github.com/sadopc/apitester/internal/core/request"
)

// connectionError is the body reported when no HTTP response was received.
var connectionError = json.RawMessage(`{"error":"connection error"}`)

// ProxyConfig holds proxy settings.
type ProxyConfig struct {
	URL     string // http://, https://, or socks5:// proxy URL
	NoProxy string // comma-separated list of hosts to bypass proxy
}

// StatusError is a failure that happened after the server answered, so the
// status line is known even though no usable response was produced.
type StatusError struct {
	StatusCode int
	StatusText string
	Body       json.RawMessage
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %v", e.StatusCode, e.StatusText, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Client dispatches requests and normalizes every outcome into a
// request.Response. It is safe for concurrent use.
type Client struct {
	mu        sync.Mutex
	timeout   time.Duration
	proxyConf *ProxyConfig
	tlsConfig *tls.Config
	client    *http.Client
}

// New creates a new HTTP client with no timeout of its own.
func New() *Client {
	return &Client{}
}

// SetTimeout sets the overall client timeout. Zero leaves it to the transport.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
	c.client = nil
}

// SetProxy configures proxy settings for the client.
func (c *Client) SetProxy(proxyURL, noProxy string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if proxyURL == "" {
		c.proxyConf = nil
	} else {
		c.proxyConf = &ProxyConfig{URL: proxyURL, NoProxy: noProxy}
	}
	c.client = nil
}

// SetTLSConfig sets the TLS configuration used for https URLs.
func (c *Client) SetTLSConfig(cfg *tls.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tlsConfig = cfg
	c.client = nil
}

// Send performs r and returns exactly one Response. Failures are folded into
// the Response (status 0 when no answer arrived); Send never fails.
func (c *Client) Send(ctx context.Context, r request.Request) request.Response {
	client, err := c.httpClient()
	if err != nil {
		log.Printf("%s %s: configuring transport: %v", r.Method, r.URL, err)
		return failure(err, 0)
	}

	httpReq, err := newHTTPRequest(ctx, r)
	if err != nil {
		log.Printf("%s %s: %v", r.Method, r.URL, err)
		return failure(err, 0)
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		elapsed := time.Since(start)
		log.Printf("%s %s: sending request: %v", r.Method, r.URL, err)
		return failure(err, elapsed)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("%s %s: reading response: %v", r.Method, r.URL, err)
		return failure(&StatusError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Err:        err,
		}, elapsed)
	}

	data := decodeBody(respBody)
	return request.Response{
		Status:      resp.StatusCode,
		StatusText:  statusText(resp),
		Time:        millis(elapsed),
		Data:        data,
		Size:        request.FormatSize(len(data)),
		ContentType: resp.Header.Get("Content-Type"),
	}
}

func newHTTPRequest(ctx context.Context, r request.Request) (*http.Request, error) {
	var body io.Reader
	payload := encodeBody(r)
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(r.Method), r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for _, h := range r.ActiveHeaders() {
		httpReq.Header.Add(h.Key, h.Value)
	}
	if payload != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, nil
}

// encodeBody returns the outbound payload, or nil when none is sent.
func encodeBody(r request.Request) []byte {
	payload, valid := r.Payload()
	if !valid {
		log.Printf("%s %s: invalid JSON body, sending {}", r.Method, r.URL)
	}
	return payload
}

// decodeBody turns a response body into the JSON value reported as data:
// JSON bodies compacted, anything else as a JSON string, empty as null.
func decodeBody(body []byte) json.RawMessage {
	if len(bytes.TrimSpace(body)) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(body) {
		return json.RawMessage(pretty.Ugly(body))
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(string(body))
	return json.RawMessage(bytes.TrimRight(buf.Bytes(), "\n"))
}

func failure(err error, elapsed time.Duration) request.Response {
	resp := request.Response{
		StatusText: "Error",
		Time:       millis(elapsed),
		Data:       connectionError,
		Size:       request.FormatSize(0),
	}
	var se *StatusError
	if errors.As(err, &se) {
		resp.Status = se.StatusCode
		if se.StatusText != "" {
			resp.StatusText = se.StatusText
		}
		if len(se.Body) > 0 {
			resp.Data = se.Body
		}
	}
	return resp
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func millis(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Round(time.Millisecond).Milliseconds()
}

func (c *Client) httpClient() (*http.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	transport, err := c.buildTransport()
	if err != nil {
		return nil, err
	}
	c.client = &http.Client{Timeout: c.timeout, Transport: transport}
	return c.client, nil
}

// buildTransport creates an http.Transport configured with proxy and TLS settings.
func (c *Client) buildTransport() (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if c.tlsConfig != nil {
		transport.TLSClientConfig = c.tlsConfig
	}

	if c.proxyConf == nil {
		return transport, nil
	}

	parsed, err := url.Parse(c.proxyConf.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy URL: %w", err)
	}

	switch parsed.Scheme {
	case "socks5", "socks5h":
		var auth *proxy.Auth
		if parsed.User != nil {
			password, _ := parsed.User.Password()
			auth = &proxy.Auth{
				User:     parsed.User.Username(),
				Password: password,
			}
		}
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("creating SOCKS5 dialer: %w", err)
		}
		noProxyHosts := parseNoProxy(c.proxyConf.NoProxy)
		direct := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, _, _ := net.SplitHostPort(addr)
			if shouldBypassProxy(host, noProxyHosts) {
				return direct.DialContext(ctx, network, addr)
			}
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
	case "http", "https":
		noProxyHosts := parseNoProxy(c.proxyConf.NoProxy)
		transport.Proxy = func(r *http.Request) (*url.URL, error) {
			if shouldBypassProxy(r.URL.Hostname(), noProxyHosts) {
				return nil, nil
			}
			return parsed, nil
		}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", parsed.Scheme)
	}

	return transport, nil
}

// parseNoProxy splits a comma-separated no-proxy string into trimmed host entries.
func parseNoProxy(noProxy string) []string {
	parts := strings.Split(noProxy, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			hosts = append(hosts, strings.ToLower(p))
		}
	}
	return hosts
}

// shouldBypassProxy checks whether a host should bypass the proxy.
func shouldBypassProxy(host string, noProxyHosts []string) bool {
	host = strings.ToLower(host)
	for _, h := range noProxyHosts {
		if h == host {
			return true
		}
		// .example.com matches any subdomain
		if strings.HasPrefix(h, ".") && strings.HasSuffix(host, h) {
			return true
		}
	}
	return false
}
