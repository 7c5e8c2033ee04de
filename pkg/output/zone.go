// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"zonemap/pkg/log"
	"zonemap/pkg/table"

	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// DefaultZoneTTL is the TTL of every rendered A record
const DefaultZoneTTL = 300

// renderZone writes RFC 1035 presentation format A records, one comment
// block per account. Rows whose IP is not IPv4 are skipped.
func renderZone(rows []table.Row, meta Metadata) ([]byte, error) {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("; Generated by %s at %s\n", meta.Generator, meta.GeneratedAt.Format(time.RFC3339)))
	content.WriteString(fmt.Sprintf("$TTL %d\n", DefaultZoneTTL))

	for _, g := range groupByAccount(rows) {
		content.WriteString(fmt.Sprintf("\n; account: %s\n", g.Name))
		for _, r := range g.Rows {
			ip := net.ParseIP(r.IP).To4()
			if ip == nil {
				log.Warn("[output/zone] Skipping %s: %q is not an IPv4 address", r.Domain, r.IP)
				continue
			}
			if _, ok := dns.IsDomainName(r.Domain); !ok {
				log.Warn("[output/zone] Skipping invalid domain name %q", r.Domain)
				continue
			}

			rr := &dns.A{
				Hdr: dns.RR_Header{
					Name:   dns.Fqdn(r.Domain),
					Rrtype: dns.TypeA,
					Class:  dns.ClassINET,
					Ttl:    DefaultZoneTTL,
				},
				A: ip,
			}
			content.WriteString(rr.String() + "\n")
		}
	}

	return []byte(content.String()), nil
}
