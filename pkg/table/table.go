// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

// Package table persists the domain to IP lookup table as semicolon separated text
package table

import (
	"zonemap/pkg/util"

	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Separator between columns
const Separator = ';'

// Header is the first line of every table file
var Header = []string{"Domain", "IP", "Account"}

// Row maps a domain to one apex IP within one account
type Row struct {
	Domain  string
	IP      string
	Account string
}

// String renders the row as it appears in the file
func (r Row) String() string {
	return r.Domain + string(Separator) + r.IP + string(Separator) + r.Account
}

// ErrInvalidField is returned for values that cannot be stored as a plain column
var ErrInvalidField = errors.New("value not representable in table")

// Encode renders the header followed by one Row.String line per row.
// Fields are never quoted; a field holding the separator, a quote or a
// line break is rejected.
func Encode(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(Header, string(Separator)))
	buf.WriteByte('\n')
	for _, r := range rows {
		for _, field := range []string{r.Domain, r.IP, r.Account} {
			if strings.ContainsAny(field, string(Separator)+"\"\r\n") {
				return nil, fmt.Errorf("%w: %q", ErrInvalidField, field)
			}
		}
		buf.WriteString(r.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with the header and rows
func Write(path string, rows []Row) error {
	data, err := Encode(rows)
	if err != nil {
		return fmt.Errorf("failed to encode table: %w", err)
	}
	return util.WriteFileAtomic(path, data, 0644)
}

// scan calls fn for every data row after the header until fn returns false.
// Lines with fewer than two columns are skipped; a missing account is left empty.
func scan(r io.Reader, fn func(Row) bool) error {
	reader := csv.NewReader(r)
	reader.Comma = Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if first {
			first = false
			continue
		}
		if len(record) < 2 {
			continue
		}

		row := Row{Domain: strings.TrimSpace(record[0]), IP: strings.TrimSpace(record[1])}
		if len(record) > 2 {
			row.Account = strings.TrimSpace(record[2])
		}
		if !fn(row) {
			return nil
		}
	}
}

// Read returns every row of the table at path
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []Row
	err = scan(f, func(r Row) bool {
		rows = append(rows, r)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

// Find returns the first row whose domain equals domain, ignoring case.
// A missing file is reported with an error matching fs.ErrNotExist.
func Find(path, domain string) (Row, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return Row{}, false, err
	}
	defer f.Close()

	var (
		found Row
		ok    bool
	)
	err = scan(f, func(r Row) bool {
		if strings.EqualFold(r.Domain, domain) {
			found, ok = r, true
			return false
		}
		return true
	})
	if err != nil {
		return Row{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return found, ok, nil
}
