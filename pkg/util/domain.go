// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package util

import (
	"strings"

	"github.com/miekg/dns"
)

// NormalizeDomainKey replaces dots with underscores for log prefixes and file names
func NormalizeDomainKey(domain string) string {
	return strings.ReplaceAll(domain, ".", "_")
}

// CleanDomain trims whitespace and a single trailing root dot; case is preserved
func CleanDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if len(domain) > 1 {
		domain = strings.TrimSuffix(domain, ".")
	}
	return domain
}

// IsValidDomain reports whether domain is a syntactically valid, non-root DNS name
func IsValidDomain(domain string) bool {
	domain = CleanDomain(domain)
	if domain == "" || domain == "." || strings.ContainsAny(domain, " \t;") {
		return false
	}
	_, ok := dns.IsDomainName(domain)
	return ok
}
