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

// ARecord is an A-record at a zone apex
type ARecord struct {
	Name    string
	Content string
}

// IsApex reports whether an A-record name denotes the zone itself
func IsApex(name, domain string) bool {
	return name == "@" || name == domain
}

// FetchApexRecords issues a single A-record request for zone and keeps only
// the apex records. The filtered result is assumed to fit on one page.
func (c *Client) FetchApexRecords(ctx context.Context, zone Zone) ([]ARecord, error) {
	raw, err := c.api.Raw(ctx, http.MethodGet, "/zones/"+zone.ID+"/dns_records?type=A&page=1", nil, nil)
	if err != nil {
		c.logger.Error("Error getting records for %s: %v", zone.Name, err)
		return nil, fmt.Errorf("fetching A records for %s: %w", zone.Name, err)
	}
	if !raw.Success {
		c.logger.Error("Failed to get records for %s: %v", zone.Name, raw.Errors)
		return nil, fmt.Errorf("fetching A records for %s: %w: %v", zone.Name, ErrAPIFailure, raw.Errors)
	}

	var records []cloudflare.DNSRecord
	if err := json.Unmarshal(raw.Result, &records); err != nil {
		c.logger.Error("Unreadable records for %s: %v", zone.Name, err)
		return nil, fmt.Errorf("decoding A records for %s: %w", zone.Name, err)
	}

	var apex []ARecord
	for _, r := range records {
		if r.Type != "A" || !IsApex(r.Name, zone.Name) {
			continue
		}
		apex = append(apex, ARecord{Name: r.Name, Content: r.Content})
	}

	c.logger.Trace("Zone %s: %d A record(s), %d at apex", zone.Name, len(records), len(apex))
	return apex, nil
}
