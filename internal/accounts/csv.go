package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ChartRow is one line of a chart-of-accounts CSV.
type ChartRow struct {
	Name    string
	Group   string
	Phone   string
	Address string
}

const (
	numFields  = 4
	colName    = 0
	colGroup   = 1
	colPhone   = 2
	colAddress = 3
)

var header = []string{"account_name", "group_name", "phone", "address"}

// ReadChart reads a chart-of-accounts CSV (with header row).
func ReadChart(r io.Reader) ([]ChartRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []ChartRow
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteChart writes a chart-of-accounts CSV.
func WriteChart(w io.Writer, rows []ChartRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRow converts a ChartRow to a CSV record.
func MarshalRow(row ChartRow) []string {
	rec := make([]string, numFields)
	rec[colName] = row.Name
	rec[colGroup] = row.Group
	rec[colPhone] = row.Phone
	rec[colAddress] = row.Address
	return rec
}

// UnmarshalRow converts a CSV record to a ChartRow.
func UnmarshalRow(record []string) (ChartRow, error) {
	if len(record) != numFields {
		return ChartRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	row := ChartRow{
		Name:    strings.TrimSpace(record[colName]),
		Group:   strings.TrimSpace(record[colGroup]),
		Phone:   strings.TrimSpace(record[colPhone]),
		Address: strings.TrimSpace(record[colAddress]),
	}
	if row.Name == "" {
		return ChartRow{}, fmt.Errorf("account_name is empty")
	}
	if row.Group == "" {
		return ChartRow{}, fmt.Errorf("group_name is empty for %q", row.Name)
	}
	return row, nil
}
