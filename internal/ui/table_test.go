package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_ColumnWidths(t *testing.T) {
	table := &Table{
		Headers: []string{"Kind", "Key"},
		Rows: [][]string{
			{"honesty", "ALL"},
			{"message", "balance sufficient for transfer"},
		},
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 7, widths[0])
	assert.Equal(t, 31, widths[1])
}

func TestTable_ColumnWidths_MaxWidth(t *testing.T) {
	table := &Table{
		Headers:  []string{"Kind", "Key"},
		Rows:     [][]string{{"message", "token destroyed at application exit"}},
		MaxWidth: 20,
	}

	widths := table.ColumnWidths()

	assert.Equal(t, 7, widths[0])
	assert.Equal(t, 20, widths[1])
}

func TestTable_Render(t *testing.T) {
	table := &Table{
		Headers: []string{"Kind", "Key"},
		Rows: [][]string{
			{"honesty", "ALL"},
			{"honesty", "NO"},
		},
	}

	output := table.Render()

	assert.Contains(t, output, "Kind")
	assert.Contains(t, output, "ALL")
	assert.Contains(t, output, "NO")
	assert.Contains(t, output, "─")
}

func TestTable_Render_Empty(t *testing.T) {
	table := &Table{}
	assert.Empty(t, table.Render())
}

func TestTable_Render_Truncation(t *testing.T) {
	table := &Table{
		Headers:  []string{"Key"},
		Rows:     [][]string{{"token destroyed at application exit"}},
		MaxWidth: 10,
	}

	assert.Contains(t, table.Render(), "…")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "…", truncate("abcd", 1))
	assert.Equal(t, "", truncate("abcd", 0))
}
