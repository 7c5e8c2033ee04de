// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"zonemap/pkg/table"

	"time"
)

// Metadata heads every structured export
type Metadata struct {
	Generator   string    `json:"generator" yaml:"generator"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Entry is one domain to IP mapping inside an account
type Entry struct {
	Domain string `json:"domain" yaml:"domain"`
	IP     string `json:"ip" yaml:"ip"`
}

// ExportData is the structure written by the json and yaml formats
type ExportData struct {
	Metadata *Metadata          `json:"metadata" yaml:"metadata"`
	Accounts map[string][]Entry `json:"accounts" yaml:"accounts"`
}

type accountGroup struct {
	Name string
	Rows []table.Row
}

// groupByAccount keeps rows in table order within each account; accounts
// appear in order of first occurrence
func groupByAccount(rows []table.Row) []accountGroup {
	index := make(map[string]int)
	var groups []accountGroup
	for _, r := range rows {
		i, ok := index[r.Account]
		if !ok {
			i = len(groups)
			index[r.Account] = i
			groups = append(groups, accountGroup{Name: r.Account})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// NewExportData builds the structured export for rows
func NewExportData(rows []table.Row, meta Metadata) *ExportData {
	export := &ExportData{
		Metadata: &meta,
		Accounts: make(map[string][]Entry),
	}
	for _, g := range groupByAccount(rows) {
		entries := make([]Entry, 0, len(g.Rows))
		for _, r := range g.Rows {
			entries = append(entries, Entry{Domain: r.Domain, IP: r.IP})
		}
		export.Accounts[g.Name] = entries
	}
	return export
}
