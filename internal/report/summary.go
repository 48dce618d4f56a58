package report

import (
	"math"
	"strings"
	"time"

	"EconDashboard/internal/model"
)

// sparkPoints is the number of trailing observations shown in a sparkline.
const sparkPoints = 24

// FormatConfidenceSummary renders the confidence cards as a terminal table.
func FormatConfidenceSummary(sec *model.ConfidenceSection) string {
	t := Table{
		Title:   "Business and Consumer Confidence",
		Headers: []string{"Country", "CCI", "Change", "BCI", "Trend"},
	}
	for i, c := range ConfidenceCards(sec.Cards) {
		code := sec.Cards[i].Code
		bci := "-"
		if col, ok := sec.BCI.Column(code); ok {
			bci = FormatValue(lastFinite(col))
		}
		trend := ""
		if col, ok := sec.CCI.Column(code); ok {
			trend = Sparkline(tail(col, sparkPoints))
		}
		t.Rows = append(t.Rows, []string{c.Label, c.Value, colorDelta(c.Delta, c.Direction), bci, trend})
	}

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString(labelled("Latest Release", FormatLatestRelease(sec.LatestRelease)))
	b.WriteString("\n")
	return b.String()
}

// FormatStressSummary renders the stress panels as a terminal table. Failed
// panels keep their row and show the failure note.
func FormatStressSummary(panels []model.StressPanel, latestUpdate time.Time) string {
	t := Table{
		Title:   "ECB Systemic Stress Indicators",
		Headers: []string{"Country", "Latest", "Mean", "Std", "vs Mean", "Trend"},
	}
	var notes []string
	for _, p := range panels {
		label := p.Result.Country
		if label == "" {
			label = p.Result.Code
		}
		if p.Note != "" {
			t.Rows = append(t.Rows, []string{label, "-", "-", "-", "-", ""})
			notes = append(notes, label+": "+p.Note)
			continue
		}
		diff := p.Latest - p.Mean
		trend := ""
		if col, ok := p.Result.Table.Column(p.Result.Country); ok {
			trend = Sparkline(tail(col, sparkPoints))
		}
		t.Rows = append(t.Rows, []string{
			label,
			FormatStress(p.Latest),
			FormatStress(p.Mean),
			FormatStress(p.Std),
			colorDelta(FormatDelta(diff, 3), stressDirection(diff)),
			trend,
		})
	}

	var b strings.Builder
	b.WriteString(t.Render())
	for _, n := range notes {
		b.WriteString(warnStyle.Render("  ! "+n) + "\n")
	}
	b.WriteString(labelled("Latest Update", FormatLatestUpdate(latestUpdate)))
	b.WriteString("\n")
	return b.String()
}

// tail returns the last n non-NaN values.
func tail(values []float64, n int) []float64 {
	out := make([]float64, 0, n)
	for i := len(values) - 1; i >= 0 && len(out) < n; i-- {
		if !math.IsNaN(values[i]) {
			out = append(out, values[i])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func lastFinite(values []float64) float64 {
	if t := tail(values, 1); len(t) == 1 {
		return t[0]
	}
	return math.NaN()
}
