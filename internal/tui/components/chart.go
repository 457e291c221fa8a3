package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/tui/theme"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline scaled between the series minimum
// and maximum.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := len(blocks) - 1
		if span > 0 {
			idx = int((v - lo) / span * float64(len(blocks)-1))
		}
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BalanceChart renders a column chart of balances around a zero axis.
// Columns above zero use the Income color and columns below use Expense.
// Series wider than the plot area are downsampled keeping each bucket's
// minimum, so a dip below zero is never hidden.
func BalanceChart(values []float64, labels []string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, theme.Active.Accent)
	}
	t := theme.Active

	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == 0 && lo == 0 {
		hi = 1
	}

	step := chartTickStep(hi - lo)
	for int(math.Ceil(hi/step)+math.Ceil(-lo/step)) > max(2, height/2) {
		step *= 2
	}
	top := math.Ceil(hi/step) * step
	bottom := -math.Ceil(-lo/step) * step
	intervals := max(1, int(math.Round((top-bottom)/step)))
	rowsPerTick := max(1, height/intervals)
	chartH := rowsPerTick * intervals

	yLabelW := max(len(formatChartLabel(top)), len(formatChartLabel(bottom)), 4) + 1

	chartW := max(5, width-yLabelW-1)
	n := len(values)
	if n > chartW {
		idx := sampleIndices(n, chartW)
		values = cli.Downsample(values, chartW)
		if len(labels) == n {
			sampled := make([]string, len(idx))
			for i, j := range idx {
				sampled[i] = labels[j]
			}
			labels = sampled
		}
		n = len(values)
	}
	barW := max(1, min(3, chartW/n))
	axisLen := n * barW

	surface := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	gainStyle := lipgloss.NewStyle().Foreground(t.Income).Background(t.Surface)
	lossStyle := lipgloss.NewStyle().Foreground(t.Expense).Background(t.Surface)
	zeroStyle := lipgloss.NewStyle().Foreground(t.BorderBright).Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		rowTop := bottom + (top-bottom)*float64(row)/float64(chartH)
		rowBottom := bottom + (top-bottom)*float64(row-1)/float64(chartH)

		label := ""
		if row%rowsPerTick == 0 {
			label = formatChartLabel(rowTop)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		if bottom < 0 && math.Abs(rowBottom) < step*1e-9 {
			b.WriteString(zeroStyle.Render("┤"))
		} else {
			b.WriteString(axisStyle.Render("│"))
		}

		for _, v := range values {
			cell := " "
			style := surface
			switch {
			case v > 0 && rowBottom >= 0 && v > rowBottom:
				style = gainStyle
				cell = "█"
				if v < rowTop {
					idx := int((v - rowBottom) / (rowTop - rowBottom) * float64(len(blocks)))
					cell = string(blocks[min(max(idx, 0), len(blocks)-1)])
				}
			case v < 0 && rowTop <= 0 && v < rowTop:
				style = lossStyle
				cell = "█"
				if v > rowBottom && (rowTop-v)/(rowTop-rowBottom) < 0.5 {
					cell = "▀"
				}
			}
			b.WriteString(style.Render(strings.Repeat(cell, barW)))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, formatChartLabel(bottom))))
	b.WriteString(axisStyle.Render("└"))
	b.WriteString(axisStyle.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(surface.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(placeLabels(labels, barW, axisLen)))
	}

	return b.String()
}

// placeLabels lays out x-axis labels under their columns without overlap.
// The last label is always shown when it fits.
func placeLabels(labels []string, barW, axisLen int) string {
	buf := []rune(strings.Repeat(" ", axisLen))
	lastStart, lastEnd := -1, -1
	put := func(i int, force bool) {
		lbl := []rune(labels[i])
		pos := i * barW
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos < 0 || (!force && pos <= lastEnd) {
			return
		}
		if force && pos <= lastEnd {
			// The final label wins over the one it collides with.
			for j := lastStart; j < axisLen; j++ {
				buf[j] = ' '
			}
		}
		copy(buf[pos:], lbl)
		lastStart, lastEnd = pos, pos+len(lbl)
	}

	for i := 0; i < len(labels)-1; i++ {
		if labels[i] != "" {
			put(i, false)
		}
	}
	if n := len(labels); n > 0 && labels[n-1] != "" {
		put(n-1, true)
	}
	return strings.TrimRight(string(buf), " ")
}

// sampleIndices returns the first index of each of n buckets over size
// values, matching cli.Downsample's bucketing.
func sampleIndices(size, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i * size / n
	}
	return idx
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(span float64) float64 {
	if span <= 0 {
		return 1
	}
	rough := span / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	trim := func(x float64, unit string) string {
		if x == math.Trunc(x) {
			return fmt.Sprintf("%s%.0f%s", sign, x, unit)
		}
		return fmt.Sprintf("%s%.1f%s", sign, x, unit)
	}
	switch {
	case v >= 1e6:
		return trim(v/1e6, "M")
	case v >= 1e3:
		return trim(v/1e3, "k")
	case v >= 1 || v == 0:
		return fmt.Sprintf("%s%.0f", sign, v)
	default:
		return fmt.Sprintf("%s%.2f", sign, v)
	}
}
