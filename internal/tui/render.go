package tui

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tOgg1/riskdesk/internal/models"
)

func truncateVis(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}

func padLines(lines []string, height int) []string {
	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

// errorText is the banner text for err: the server's message when there is
// one, otherwise the error string.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	var remote *models.RemoteRequestError
	if errors.As(err, &remote) && strings.TrimSpace(remote.Message) != "" {
		return remote.Message
	}
	var validation *models.ValidationError
	if errors.As(err, &validation) && validation.Message != "" {
		return validation.Message
	}
	return err.Error()
}

// scrollWindow returns the [start, end) range of rows to render so that
// cursor stays visible.
func scrollWindow(total, cursor, rows int) (int, int) {
	if rows <= 0 || total == 0 {
		return 0, 0
	}
	if total <= rows {
		return 0, total
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > total {
		start = total - rows
	}
	return start, start + rows
}

func clampCursor(cursor, total int) int {
	if total == 0 || cursor < 0 {
		return 0
	}
	if cursor >= total {
		return total - 1
	}
	return cursor
}
