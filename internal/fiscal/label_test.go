package fiscal

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
)

func TestDates(t *testing.T) {
	start, end, err := Dates("2026-27", DefaultYearStart)
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01", start.Format(model.DateFormat))
	assert.Equal(t, "2027-03-31", end.Format(model.DateFormat))

	// Century rollover: 2099-00.
	start, end, err = Dates("2099-00", DefaultYearStart)
	require.NoError(t, err)
	assert.Equal(t, "2099-04-01", start.Format(model.DateFormat))
	assert.Equal(t, "2100-03-31", end.Format(model.DateFormat))

	// Calendar-year businesses.
	start, end, err = Dates("2025-26", "01-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", start.Format(model.DateFormat))
	assert.Equal(t, "2025-12-31", end.Format(model.DateFormat))
}

func TestParseLabel_Rejects(t *testing.T) {
	tests := []struct {
		label string
		msg   string
	}{
		{"2026-28", "sequence"},
		{"1999-00", "between"},
		{"2100-01", "between"},
		{"2026/27", "format"},
		{"26-27", "format"},
		{"", "format"},
		{"2026-2027", "format"},
	}
	for _, tt := range tests {
		_, err := ParseLabel(tt.label)
		require.Error(t, err, "label %q", tt.label)
		assert.True(t, errors.Is(err, model.ErrValidation), "label %q", tt.label)
		assert.Contains(t, err.Error(), tt.msg, "label %q", tt.label)
	}
}

func TestParseLabel_TrimsSpace(t *testing.T) {
	y, err := ParseLabel("  2024-25 ")
	require.NoError(t, err)
	assert.Equal(t, 2024, y)
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, "2026-27", FormatLabel(2026))
	assert.Equal(t, "2099-00", FormatLabel(2099))
	assert.Equal(t, "2009-10", FormatLabel(2009))
}

func TestLabelFor(t *testing.T) {
	label, err := LabelFor(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), DefaultYearStart)
	require.NoError(t, err)
	assert.Equal(t, "2025-26", label)

	label, err = LabelFor(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), DefaultYearStart)
	require.NoError(t, err)
	assert.Equal(t, "2026-27", label)
}

func TestParseYearStart_Invalid(t *testing.T) {
	_, _, err := ParseYearStart("13-01")
	assert.Error(t, err)
	_, _, err = ParseYearStart("02-29")
	assert.Error(t, err)
}
