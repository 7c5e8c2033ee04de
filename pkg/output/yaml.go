// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package output

import (
	"zonemap/pkg/table"

	"strings"

	"gopkg.in/yaml.v3"
)

func renderYAML(rows []table.Row, meta Metadata) ([]byte, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	err := encoder.Encode(NewExportData(rows, meta))
	encoder.Close()
	if err != nil {
		return nil, err
	}

	return []byte(buf.String()), nil
}
