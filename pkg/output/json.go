// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"zonemap/pkg/table"

	"encoding/json"
)

func renderJSON(rows []table.Row, meta Metadata) ([]byte, error) {
	data, err := json.MarshalIndent(NewExportData(rows, meta), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
