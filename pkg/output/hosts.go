// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"zonemap/pkg/table"

	"fmt"
	"strings"
	"time"
)

// renderHosts writes aligned "IP  DOMAIN  # account" lines
func renderHosts(rows []table.Row, meta Metadata) ([]byte, error) {
	var content strings.Builder

	content.WriteString(fmt.Sprintf("# Hosts file generated by %s\n", meta.Generator))
	content.WriteString(fmt.Sprintf("# Generated at: %s\n", meta.GeneratedAt.Format(time.RFC3339)))
	content.WriteString("\n")

	if len(rows) == 0 {
		content.WriteString("# No records to write\n")
		return []byte(content.String()), nil
	}

	maxIPWidth, maxDomainWidth := 0, 0
	for _, r := range rows {
		maxIPWidth = max(maxIPWidth, len(r.IP))
		maxDomainWidth = max(maxDomainWidth, len(r.Domain))
	}
	maxIPWidth += 2
	maxDomainWidth += 2

	for _, r := range rows {
		content.WriteString(fmt.Sprintf("%s%s%s%s# %s\n",
			r.IP,
			strings.Repeat(" ", maxIPWidth-len(r.IP)),
			r.Domain,
			strings.Repeat(" ", maxDomainWidth-len(r.Domain)),
			r.Account))
	}

	return []byte(content.String()), nil
}
