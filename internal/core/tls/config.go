package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// Config holds the server-verification settings for outbound https requests.
type Config struct {
	CAFile             string `yaml:"ca_file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty"`
}

// BuildTLSConfig creates a *tls.Config from the configuration. It returns
// nil when nothing is configured so the transport keeps its defaults.
func (c Config) BuildTLSConfig() (*tls.Config, error) {
	if c.IsEmpty() {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
	}

	if c.CAFile != "" {
		caCert, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA cert: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert %s", c.CAFile)
		}
		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

// IsEmpty returns true if no TLS settings are configured.
func (c Config) IsEmpty() bool {
	return c.CAFile == "" && !c.InsecureSkipVerify
}
