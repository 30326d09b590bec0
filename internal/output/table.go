package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table is a bordered table of build rows. One optional column holds status
// words (built, failed, ...) and is colored with StatusStyle.
type Table struct {
	headers   []string
	rows      [][]string
	statusCol int
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, statusCol: -1}
}

// Row appends a row.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// StatusColumn marks column col as the status column.
func (t *Table) StatusColumn(col int) *Table {
	t.statusCol = col
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) String() string {
	header := GetStyles().Header
	plain := lipgloss.NewStyle()

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorDimGray)).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == t.statusCol && row >= 0 && row < len(t.rows) && col < len(t.rows[row]):
				return StatusStyle(t.rows[row][col])
			}
			return plain
		})
	return tbl.String()
}
