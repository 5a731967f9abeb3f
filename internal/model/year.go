package model

import "time"

// DateFormat is the storage and wire format for calendar dates.
const DateFormat = "2006-01-02"

// FinancialYear is a twelve-month accounting period labelled "YYYY-YY".
type FinancialYear struct {
	ID     int64     `json:"id"`
	Label  string    `json:"label"`
	Start  time.Time `json:"start_date"`
	End    time.Time `json:"end_date"`
	Active bool      `json:"is_active"`
}

// Range returns the full date range covered by the year.
func (y FinancialYear) Range() DateRange {
	return DateRange{From: y.Start, To: y.End}
}

// Contains reports whether d falls inside the year, inclusive.
func (y FinancialYear) Contains(d time.Time) bool {
	return y.Range().Contains(d)
}
