package styles

import "github.com/charmbracelet/lipgloss"

const (
	// LayoutGap is the default space between columns.
	LayoutGap = 1

	// LayoutInnerPadding is the default panel content padding.
	LayoutInnerPadding = 1
)

const (
	maxProfileWidth = 28
	minProfileWidth = 16
	minColumnWidth  = 20
)

// ColumnWidths are the widths of the topics screen columns. A zero width
// means the column is hidden.
type ColumnWidths struct {
	Profile   int
	Topics    int
	Companies int
}

// ComputeColumnWidths splits totalWidth into the profile, topics, and
// companies columns. Hidden panels get no width.
func ComputeColumnWidths(totalWidth int, showProfile, showCompanies bool) ColumnWidths {
	if totalWidth <= 0 {
		return ColumnWidths{}
	}

	var widths ColumnWidths
	remaining := totalWidth
	if showProfile {
		widths.Profile = clampInt(totalWidth/3, minProfileWidth, maxProfileWidth)
		remaining -= widths.Profile + LayoutGap
	}
	if showCompanies {
		widths.Companies = maxInt(minColumnWidth, remaining/2)
		remaining -= widths.Companies + LayoutGap
	}
	widths.Topics = maxInt(0, remaining)

	if widths.Topics < minColumnWidth && (showProfile || showCompanies) {
		// Too narrow for three columns: drop the profile column first.
		if showProfile {
			return ComputeColumnWidths(totalWidth, false, showCompanies)
		}
		return ComputeColumnWidths(totalWidth, false, false)
	}
	return widths
}

// PanelStyle returns a focused/unfocused border style for panes.
func PanelStyle(theme Theme, focused bool) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(panelBorderStyle(theme)).
		BorderForeground(lipgloss.Color(panelBorderColor(theme, focused))).
		Padding(0, LayoutInnerPadding)
}

// InnerWidth is the usable content width of a panel rendered at width.
func InnerWidth(width int) int {
	return maxInt(0, width-(LayoutInnerPadding*2)-2)
}

// InnerHeight is the usable content height of a panel rendered at height.
func InnerHeight(height int) int {
	return maxInt(1, height-2)
}

func panelBorderColor(theme Theme, focused bool) string {
	if focused {
		return theme.Borders.ActivePane
	}
	return theme.Borders.InactivePane
}

func panelBorderStyle(theme Theme) lipgloss.Border {
	switch theme.BorderStyle {
	case "double":
		return lipgloss.DoubleBorder()
	case "sharp":
		return lipgloss.NormalBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
