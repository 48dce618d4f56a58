package report

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconDashboard/internal/model"
)

func TestDateFormats(t *testing.T) {
	d := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "January-2024", FormatLatestRelease(d))
	assert.Equal(t, "02-January-2024", FormatLatestUpdate(d))
	assert.Equal(t, "n/a", FormatLatestUpdate(time.Time{}))
}

func TestNumberFormats(t *testing.T) {
	assert.Equal(t, "99.6", FormatValue(99.6))
	assert.Equal(t, "+0.4", FormatDelta(0.4, 1))
	assert.Equal(t, "-0.4", FormatDelta(-0.4, 1))
	assert.Equal(t, "-", FormatValue(math.NaN()))
	assert.Equal(t, "0.071", FormatStress(0.0712))
}

func TestConfidenceCards(t *testing.T) {
	cards := ConfidenceCards([]model.MetricCard{
		{Code: "IRL", Label: "Ireland", Value: 98.9, Delta: 0.4, Valid: true},
		{Code: "POL", Label: "Poland"},
	})
	require.Len(t, cards, 2)
	assert.Equal(t, Card{Label: "Ireland", Value: "98.9", Delta: "+0.4", Direction: "up"}, cards[0])
	assert.Equal(t, "-", cards[1].Value)
}

func TestGauges(t *testing.T) {
	panels := []model.StressPanel{
		{
			Result: model.StressResult{Country: "Germany"},
			Gauge: &model.Gauge{
				Value: 0.25, Delta: 0.05, AxisMin: 0, AxisMax: 1,
				Steps: []model.GaugeStep{
					{From: 0, To: 0.2, Color: "lightgray"},
					{From: 0.9, To: 0.8, Color: "red"},
				},
			},
		},
		{Result: model.StressResult{Country: "France"}},
	}
	g := Gauges(panels)
	require.Len(t, g, 1)
	assert.Equal(t, "Germany", g[0].Label)
	assert.InDelta(t, 25, g[0].Position, 1e-9)
	assert.Equal(t, "+0.050", g[0].Delta)
	// stress above its mean renders as bad news
	assert.Equal(t, "down", g[0].Direction)
	// inverted steps are dropped
	require.Len(t, g[0].Steps, 1)
	assert.InDelta(t, 20, g[0].Steps[0].Width, 1e-9)
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▄█", Sparkline([]float64{0, 0.5, 1}))
	assert.Equal(t, "▁▁", Sparkline([]float64{3, 3}))
	assert.Empty(t, Sparkline(nil))
	assert.Equal(t, []float64{2, 4}, tail([]float64{1, 2, math.NaN(), 4}, 2))
}

func TestTableRender(t *testing.T) {
	out := Table{
		Title:   "T",
		Headers: []string{"Country", "Value"},
		Rows:    [][]string{{"Ireland", "1.0"}, {"United Kingdom", "10.5"}},
	}.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[4], "Ireland")
	assert.Contains(t, out, "United Kingdom")
	assert.Empty(t, Table{}.Render())
}

func TestFormatStressSummary(t *testing.T) {
	tbl := &model.Table{
		Index:   []time.Time{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		Columns: []string{"Germany"},
		Values:  [][]float64{{0.1, 0.3}},
	}
	panels := []model.StressPanel{
		{Result: model.StressResult{Status: model.StressOK, Code: "DE", Country: "Germany", Table: tbl}, Mean: 0.2, Std: 0.1, Latest: 0.3},
		{Result: model.StressResult{Status: model.StressFetchError, Code: "US", Country: "United States", Err: errors.New("x")}, Note: "upstream down"},
	}
	out := FormatStressSummary(panels, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "Germany")
	assert.Contains(t, out, "0.300")
	assert.Contains(t, out, "+0.100")
	assert.Contains(t, out, "United States: upstream down")
	assert.Contains(t, out, "Latest Update: 02-January-2024")
}

func TestFormatConfidenceSummary(t *testing.T) {
	idx := []time.Time{time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC)}
	sec := &model.ConfidenceSection{
		CCI:           &model.Table{Index: idx, Columns: []string{"IRL"}, Values: [][]float64{{98.5, 98.9}}},
		BCI:           &model.Table{Index: idx, Columns: []string{"IRL"}, Values: [][]float64{{100.1, math.NaN()}}},
		Cards:         []model.MetricCard{{Code: "IRL", Label: "Ireland", Value: 98.9, Delta: 0.4, Valid: true}},
		LatestRelease: idx[1],
	}
	out := FormatConfidenceSummary(sec)
	assert.Contains(t, out, "Ireland")
	assert.Contains(t, out, "100.1")
	assert.Contains(t, out, "Latest Release: February-2019")
}
