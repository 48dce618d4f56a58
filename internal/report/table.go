package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#3AA99F")
	colorDim    = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
	colorOrange = lipgloss.Color("#DA702C")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(colorText)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	upStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	downStyle   = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
)

// Table is a bordered text table for terminal output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (t Table) widths() []int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	widths := make([]int, n)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func rule(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

// pad aligns cell to w display columns. The first column is left aligned.
func pad(cell string, w int, left bool) string {
	gap := strings.Repeat(" ", w-lipgloss.Width(cell))
	if left {
		return " " + cell + gap + " "
	}
	return " " + gap + cell + " "
}

// Render draws the table with rounded borders.
func (t Table) Render() string {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return ""
	}
	widths := t.widths()

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + headerStyle.Render(t.Title) + "\n")
	}
	rule(&b, widths, "╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, w := range widths {
			h := ""
			if i < len(t.Headers) {
				h = t.Headers[i]
			}
			b.WriteString(headerStyle.Render(pad(h, w, true)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		rule(&b, widths, "├", "┼", "┤")
	}

	for _, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(pad(cell, w, i == 0))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}
	rule(&b, widths, "╰", "┴", "╯")
	return b.String()
}

// Sparkline renders values as unicode blocks scaled between their min and max.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	var buf strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(blocks)-1))
		buf.WriteRune(blocks[max(0, min(idx, len(blocks)-1))])
	}
	return buf.String()
}

func colorDelta(s, dir string) string {
	switch dir {
	case "up":
		return upStyle.Render(s)
	case "down":
		return downStyle.Render(s)
	default:
		return valueStyle.Render(s)
	}
}

func labelled(label, value string) string {
	return fmt.Sprintf("%s %s", dimStyle.Render(label+":"), valueStyle.Render(value))
}
