// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package cloudflare lists zones and apex A-records for one account
package cloudflare

import (
	"zonemap/pkg/config"
	"zonemap/pkg/log"
	"zonemap/pkg/util"

	"errors"
	"fmt"
	"net/http"

	"github.com/cloudflare/cloudflare-go"
)

// DefaultPerPage is the zone listing page size
const DefaultPerPage = 50

// ErrAPIFailure is returned when a response carries success=false
var ErrAPIFailure = errors.New("cloudflare API reported failure")

// Options tune every account client built by NewClient
type Options struct {
	BaseURL    string // empty keeps the cloudflare-go default
	PerPage    int
	RateLimit  float64 // requests per second, 0 keeps the library default
	HTTPClient *http.Client
	UserAgent  string
}

// Client talks to the API on behalf of one account
type Client struct {
	api     *cloudflare.API
	account string
	perPage int
	logger  *log.ScopedLogger
}

// NewClient creates a client for account. Failed requests are never retried.
func NewClient(account config.Account, opts Options) (*Client, error) {
	logPrefix := fmt.Sprintf("[cloudflare/%s]", account.Name)

	cfOpts := []cloudflare.Option{
		cloudflare.UsingRetryPolicy(0, 0, 0),
	}
	if opts.BaseURL != "" {
		cfOpts = append(cfOpts, cloudflare.BaseURL(opts.BaseURL))
	}
	if opts.RateLimit > 0 {
		cfOpts = append(cfOpts, cloudflare.UsingRateLimit(opts.RateLimit))
	}
	if opts.HTTPClient != nil {
		cfOpts = append(cfOpts, cloudflare.HTTPClient(opts.HTTPClient))
	}
	if opts.UserAgent != "" {
		cfOpts = append(cfOpts, cloudflare.UserAgent(opts.UserAgent))
	}

	api, err := cloudflare.NewWithAPIToken(account.Token, cfOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s failed to create Cloudflare client: %w", logPrefix, err)
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	logger := log.NewScopedLogger(logPrefix, "")
	logger.Trace("Client initialized (per_page: %d, token: %s)", perPage, util.MaskSensitiveValue(account.Token))

	return &Client{
		api:     api,
		account: account.Name,
		perPage: perPage,
		logger:  logger,
	}, nil
}

// Account returns the account name the client acts for
func (c *Client) Account() string {
	return c.account
}
