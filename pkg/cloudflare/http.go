// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package cloudflare

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"time"
)

// TLSConfig represents TLS configuration for the API client.
// Certificate verification is always on; CA only adds trust anchors.
type TLSConfig struct {
	CA string
}

// ValidateConfig validates the TLS configuration
func (tc TLSConfig) ValidateConfig() error {
	if tc.CA != "" {
		if _, err := os.Stat(tc.CA); os.IsNotExist(err) {
			return fmt.Errorf("CA certificate file not found: %s", tc.CA)
		}
	}
	return nil
}

// CreateTLSConfig builds a tls.Config trusting the system pool plus CA
func (tc TLSConfig) CreateTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if tc.CA == "" {
		return tlsConfig, nil
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	caCert, err := os.ReadFile(tc.CA)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA certificate: %w", err)
	}
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate %s", tc.CA)
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

// NewHTTPClient creates the HTTP client shared by the account clients.
// A zero timeout leaves requests bounded only by the context.
func NewHTTPClient(tc TLSConfig, timeout time.Duration) (*http.Client, error) {
	if err := tc.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid TLS configuration: %w", err)
	}
	tlsConfig, err := tc.CreateTLSConfig()
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsConfig
	transport.MaxIdleConnsPerHost = 10

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}
