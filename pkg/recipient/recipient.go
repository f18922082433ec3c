// Package recipient loads mail-merge recipient lists from CSV.
//
// The first line of the file is the header; header names are normalized to
// lower case once at load time, so lookups like "email" match "Email" and
// "EMAIL" columns. Rows are plain string maps: no schema is enforced here,
// and the send loop decides what to do with rows lacking an address.
package recipient

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ErrParse indicates the CSV stream itself could not be read. It aborts the
// whole operation, unlike per-row issues which are handled downstream.
var ErrParse = errors.New("recipient: failed to parse csv")

// Row maps lower-cased column names to trimmed cell values.
type Row map[string]string

// Get returns the value for a column, case-insensitively.
func (r Row) Get(key string) string {
	return r[strings.ToLower(key)]
}

// Email returns the row's email address, or "" when the column is absent or
// blank. Rows without an address are skipped by the send loop.
func (r Row) Email() string {
	return r["email"]
}

// Name returns the row's display name, or "".
func (r Row) Name() string {
	return r["name"]
}

// Load reads CSV content and materializes one Row per data line. An empty
// stream or a header-only file yields zero rows without error; callers
// treat that as "no recipients found" rather than a parse failure.
func Load(src io.Reader) ([]Row, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Join(ErrParse, err)
	}

	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, errors.Join(ErrParse, err)
		}

		row := make(Row, len(header))
		for i, value := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = strings.TrimSpace(value)
		}
		rows = append(rows, row)
	}
}
