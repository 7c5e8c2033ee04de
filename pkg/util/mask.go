// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package util

import (
	"strings"
)

// MaskSensitiveValue masks a sensitive string value for safe logging.
// Short values collapse to "****"; longer ones keep a few characters at each end.
func MaskSensitiveValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) < 6 {
		return "****"
	}

	visible := 2
	if len(value) > 12 {
		visible = 3
	}

	return value[:visible] + strings.Repeat("*", len(value)-2*visible) + value[len(value)-visible:]
}
