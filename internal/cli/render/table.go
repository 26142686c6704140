package render

import (
	"regexp"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// TableData is a list of rows of cells
type TableData [][]string

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

// renderTable renders rows without borders, columns padded to their widest cell
func renderTable(header []string, rows TableData) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Format.Header = text.FormatDefault
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	widths := calculateColumnWidths(append(TableData{header}, rows...))
	colConfigs := make([]table.ColumnConfig, len(widths))
	for i, width := range widths {
		colConfigs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
		}
	}
	t.SetColumnConfigs(colConfigs)

	if len(header) > 0 {
		headerRow := make(table.Row, len(header))
		for i, h := range header {
			headerRow[i] = h
		}
		t.AppendHeader(headerRow)
	}
	for _, row := range rows {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			tableRow[i] = cell
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

// stripAnsiCodes removes ANSI escape sequences from a string
func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// calculateColumnWidths returns the widest visible cell of every column
func calculateColumnWidths(rows TableData) []int {
	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	widths := make([]int, maxCols)
	for _, row := range rows {
		for colIdx, cell := range row {
			// Strip ANSI codes for width calculation
			if w := len([]rune(stripAnsiCodes(cell))); w > widths[colIdx] {
				widths[colIdx] = w
			}
		}
	}
	return widths
}
