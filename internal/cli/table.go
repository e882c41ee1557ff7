package cli

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	tablePadding = 2

	// maxCellWidth caps a column so long topic names do not push the table
	// off screen.
	maxCellWidth = 48
)

type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) write(out io.Writer) error {
	return writeTable(out, t.headers, t.rows)
}

func writeTable(out io.Writer, headers []string, rows [][]string) error {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	measure := func(row []string) {
		for idx, cell := range row {
			widths[idx] = max(widths[idx], cellWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	w := bufio.NewWriter(out)
	writeRow := func(row []string) {
		var line strings.Builder
		for idx := 0; idx < colCount; idx++ {
			cell := ""
			if idx < len(row) {
				cell = fitCell(row[idx])
			}
			line.WriteString(cell)
			if idx < colCount-1 {
				line.WriteString(strings.Repeat(" ", max(0, widths[idx]-cellWidth(cell))+tablePadding))
			}
		}
		w.WriteString(strings.TrimRight(line.String(), " "))
		w.WriteByte('\n')
	}

	if len(headers) > 0 {
		writeRow(headers)
	}
	for _, row := range rows {
		writeRow(row)
	}
	return w.Flush()
}

func cellWidth(cell string) int {
	return min(runewidth.StringWidth(stripANSI(cell)), maxCellWidth)
}

func fitCell(cell string) string {
	if runewidth.StringWidth(stripANSI(cell)) <= maxCellWidth {
		return cell
	}
	return runewidth.Truncate(stripANSI(cell), maxCellWidth, "…")
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func formatCount(value int) string {
	if value <= 0 {
		return "-"
	}
	return strconv.Itoa(value)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04")
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func stripANSI(value string) string {
	if !strings.Contains(value, "\x1b[") {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] != 0x1b || i+1 >= len(value) || value[i+1] != '[' {
			b.WriteByte(value[i])
			continue
		}
		for i += 2; i < len(value); i++ {
			if ch := value[i]; ch >= 0x40 && ch <= 0x7e {
				break
			}
		}
	}
	return b.String()
}
