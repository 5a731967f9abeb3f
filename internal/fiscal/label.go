// Package fiscal manages financial years and the active-year selection.
package fiscal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/ledger/internal/model"
)

// DefaultYearStart is the MM-DD on which financial years begin.
const DefaultYearStart = "04-01"

const (
	minStartYear = 2000
	maxStartYear = 2099
)

var labelPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

func labelError(label, msg string) error {
	return &model.ValidationError{Entity: "financial_year", Field: "label", Message: fmt.Sprintf("%q: %s", label, msg)}
}

// ParseLabel parses "2026-27" into its starting calendar year.
func ParseLabel(label string) (int, error) {
	label = strings.TrimSpace(label)
	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, labelError(label, "invalid format, use YYYY-YY (e.g. 2026-27)")
	}

	startYear, _ := strconv.Atoi(m[1])
	suffix, _ := strconv.Atoi(m[2])

	if startYear < minStartYear || startYear > maxStartYear {
		return 0, labelError(label, "financial year must be between 2000-01 and 2099-00")
	}
	if (startYear+1)%100 != suffix {
		return 0, labelError(label, fmt.Sprintf("invalid financial year sequence, expected %d-%02d", startYear, (startYear+1)%100))
	}
	return startYear, nil
}

// FormatLabel returns the label for a year starting in startYear.
func FormatLabel(startYear int) string {
	return fmt.Sprintf("%04d-%02d", startYear, (startYear+1)%100)
}

// ParseYearStart parses an "MM-DD" year start.
func ParseYearStart(yearStart string) (time.Month, int, error) {
	if yearStart == "" {
		yearStart = DefaultYearStart
	}
	// 2001 is not a leap year, so 02-29 is rejected.
	t, err := time.Parse("2006-01-02", "2001-"+yearStart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid fiscal year start %q, use MM-DD: %w", yearStart, err)
	}
	return t.Month(), t.Day(), nil
}

// Dates returns the first and last day of the year labelled label.
// With the default start, "2026-27" spans 2026-04-01 to 2027-03-31.
func Dates(label, yearStart string) (time.Time, time.Time, error) {
	startYear, err := ParseLabel(label)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	month, day, err := ParseYearStart(yearStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(startYear, month, day, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	return start, end, nil
}

// LabelFor returns the label of the financial year containing d.
func LabelFor(d time.Time, yearStart string) (string, error) {
	month, day, err := ParseYearStart(yearStart)
	if err != nil {
		return "", err
	}
	startYear := d.Year()
	if d.Before(time.Date(d.Year(), month, day, 0, 0, 0, 0, d.Location())) {
		startYear--
	}
	return FormatLabel(startYear), nil
}
