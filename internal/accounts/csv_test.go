package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	rows := []ChartRow{
		{Name: "Acme Traders", Group: "Sundry Debtors", Phone: "555-0100", Address: "12 Market St, Pune"},
		{Name: "Cash", Group: "Assets"},
	}

	var buf bytes.Buffer
	err := WriteChart(&buf, rows)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "account_name,group_name,phone,address\n"))

	got, err := ReadChart(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadChart_TrimsFields(t *testing.T) {
	in := "account_name,group_name,phone,address\n  Bank , Assets ,,\n"
	got, err := ReadChart(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ChartRow{Name: "Bank", Group: "Assets"}, got[0])
}

func TestReadChart_Empty(t *testing.T) {
	got, err := ReadChart(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadChart_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"missing name", "account_name,group_name,phone,address\n,Assets,,\n", "row 2: account_name is empty"},
		{"missing group", "account_name,group_name,phone,address\nCash,,,\n", `group_name is empty for "Cash"`},
		{"wrong field count", "account_name,group_name,phone,address\nCash,Assets\n", "reading accounts CSV"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadChart(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefaultChart(t *testing.T) {
	groups := map[string]bool{}
	for _, g := range DefaultGroups() {
		assert.True(t, g.Category.Valid(), "group %s", g.Name)
		groups[g.Name] = true
	}

	chart := DefaultChart()
	require.NotEmpty(t, chart)
	for _, row := range chart {
		assert.True(t, groups[row.Group], "account %s references unknown group %s", row.Name, row.Group)
	}
}
