package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	gainStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	lossStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// Separator is a row marker that RenderTable draws as a horizontal rule.
const Separator = "---"

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// Muted renders s in the muted text color.
func Muted(s string) string { return mutedStyle.Render(s) }

// Warn renders s in the warning color.
func Warn(s string) string { return warnStyle.Render(s) }

// Money renders a formatted amount, red when negative.
func Money(v float64) string {
	if v < 0 {
		return lossStyle.Render(FormatMoney(v))
	}
	return FormatMoney(v)
}

// SignedMoney renders a signed amount, green for gains and red for losses.
func SignedMoney(v float64) string {
	switch s := FormatSignedMoney(v); {
	case strings.HasPrefix(s, "+"):
		return gainStyle.Render(s)
	case strings.HasPrefix(s, "-"):
		return lossStyle.Render(s)
	default:
		return s
	}
}

// RenderTable renders a bordered table with headers and rows. The first
// column is left-aligned, the rest right-aligned. Cells may carry ANSI
// styling; widths are measured on visible characters.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		measure := func(i int, cell string) {
			if w := lipgloss.Width(cell); i < numCols && w > widths[i] {
				widths[i] = w
			}
		}
		for i, h := range t.Headers {
			measure(i, h)
		}
		for _, row := range t.Rows {
			if isSeparator(row) {
				continue
			}
			for i, cell := range row {
				measure(i, cell)
			}
		}
	}

	rule := func(left, mid, right string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return dimStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
	}

	line := func(cells []string, style lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0))
			if i == 0 {
				b.WriteString(" " + style.Render(cell) + pad + " ")
			} else {
				b.WriteString(" " + pad + style.Render(cell) + " ")
			}
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, headerStyle))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, valueStyle))
	}
	b.WriteString(rule("╰", "┴", "╯"))

	return b.String()
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == Separator
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline generates a unicode block sparkline from a series of
// values. Values are scaled between the series minimum and maximum, so
// negative balances render as the lowest blocks.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var b strings.Builder
	for _, v := range values {
		idx := len(sparkBlocks) - 1
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkBlocks)-1))
		}
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		b.WriteRune(sparkBlocks[idx])
	}

	return b.String()
}

// Downsample reduces values to at most n points by taking the minimum of
// each bucket, so dips below zero survive compression.
func Downsample(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(values) / n
		end := (i + 1) * len(values) / n
		m := values[start]
		for _, v := range values[start+1 : end] {
			m = math.Min(m, v)
		}
		out[i] = m
	}
	return out
}

// RenderBalanceChart draws a column chart of values around a zero axis.
// Positive values grow up from the axis and negative values grow down.
// height is the number of bar rows; the axis adds one more.
func RenderBalanceChart(values []float64, width, height int) string {
	if len(values) == 0 || width <= 0 || height < 1 {
		return ""
	}
	values = Downsample(values, width)

	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == 0 && lo == 0 {
		hi = 1
	}

	above := int(math.Round(hi / (hi - lo) * float64(height)))
	if hi > 0 && above == 0 {
		above = 1
	}
	if lo < 0 && above == height {
		above = height - 1
	}
	below := height - above

	barRows := func(v, extreme float64, rows int) int {
		if v == 0 || rows == 0 {
			return 0
		}
		return int(math.Ceil(v / extreme * float64(rows)))
	}

	labelW := max(len(FormatCompactMoney(hi)), len(FormatCompactMoney(lo)))
	label := func(s string) string {
		return mutedStyle.Render(fmt.Sprintf("%*s ", labelW, s))
	}

	var b strings.Builder
	for r := 0; r < above; r++ {
		if r == 0 {
			b.WriteString(label(FormatCompactMoney(hi)))
		} else {
			b.WriteString(label(""))
		}
		for _, v := range values {
			if v > 0 && above-r <= barRows(v, hi, above) {
				b.WriteString(gainStyle.Render("█"))
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(label("$0"))
	b.WriteString(dimStyle.Render(strings.Repeat("─", len(values))))
	b.WriteString("\n")

	for k := 0; k < below; k++ {
		if k == below-1 {
			b.WriteString(label(FormatCompactMoney(lo)))
		} else {
			b.WriteString(label(""))
		}
		for _, v := range values {
			if v < 0 && k < barRows(v, lo, below) {
				b.WriteString(lossStyle.Render("█"))
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
