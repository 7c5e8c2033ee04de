// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cloudflare/cloudflare-go"
)

// Zone is a managed domain
type Zone struct {
	ID   string
	Name string
}

// ZoneListing is the outcome of a paginated listing.
// When Err is set, Zones holds every page fetched before the failure.
type ZoneListing struct {
	Zones []Zone
	Pages int // pages fetched successfully
	Err   error
}

// Complete reports whether every page was fetched
func (l ZoneListing) Complete() bool {
	return l.Err == nil
}

// ListZones walks the zone pages from page 1 until page >= total_pages.
// The first failing page ends the walk; the zones gathered so far are kept.
func (c *Client) ListZones(ctx context.Context) ZoneListing {
	var listing ZoneListing

	for page := 1; ; page++ {
		// ListZonesContext refuses explicit page options, so pages are requested raw
		raw, err := c.api.Raw(ctx, http.MethodGet, fmt.Sprintf("/zones?page=%d&per_page=%d", page, c.perPage), nil, nil)
		if err != nil {
			c.logger.Error("Error getting zones list (page %d): %v", page, err)
			listing.Err = fmt.Errorf("listing zones page %d: %w", page, err)
			return listing
		}
		if !raw.Success {
			c.logger.Error("Failed to get zones list (page %d): %v", page, raw.Errors)
			listing.Err = fmt.Errorf("listing zones page %d: %w: %v", page, ErrAPIFailure, raw.Errors)
			return listing
		}

		var zones []cloudflare.Zone
		if err := json.Unmarshal(raw.Result, &zones); err != nil {
			c.logger.Error("Unreadable zones list (page %d): %v", page, err)
			listing.Err = fmt.Errorf("decoding zones page %d: %w", page, err)
			return listing
		}

		for _, z := range zones {
			listing.Zones = append(listing.Zones, Zone{ID: z.ID, Name: z.Name})
		}
		listing.Pages = page

		totalPages := 0
		if raw.ResultInfo != nil {
			totalPages = raw.ResultInfo.TotalPages
		}
		c.logger.Trace("Zones page %d/%d: %d zone(s)", page, totalPages, len(zones))

		if page >= totalPages {
			break
		}
	}

	c.logger.Debug("Listed %d zone(s) over %d page(s)", len(listing.Zones), listing.Pages)
	return listing
}
