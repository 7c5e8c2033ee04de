// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package cli

import (
	"zonemap/pkg/table"

	"io"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

// PrintTable renders rows as a console table and returns how many were shown.
// An empty account shows every row.
func PrintTable(w io.Writer, rows []table.Row, account string) int {
	t := prettytable.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(prettytable.Row{"Domain", "IP", "Account"})

	shown := 0
	for _, r := range rows {
		if account != "" && r.Account != account {
			continue
		}
		t.AppendRow(prettytable.Row{r.Domain, r.IP, r.Account})
		shown++
	}
	t.AppendFooter(prettytable.Row{"", "Total", shown})
	t.Render()
	return shown
}
