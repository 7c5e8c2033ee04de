// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package inventory

// Status separates "nothing to report" from "could not ask"
type Status int

const (
	StatusOK     Status = iota // at least one row produced
	StatusEmpty                // requests succeeded, no apex A-record
	StatusFailed               // transport or API failure
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
