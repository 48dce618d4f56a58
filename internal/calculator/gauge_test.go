package calculator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EconDashboard/internal/model"
)

func TestBandsClipLowerAtZero(t *testing.T) {
	lower, upper := Bands(0.1, 0.15)
	assert.Equal(t, 0.0, lower.From)
	assert.Equal(t, 0.1, lower.To)
	assert.Equal(t, "green", lower.Color)
	assert.Equal(t, 0.1, upper.From)
	assert.InDelta(t, 0.25, upper.To, 1e-12)
	assert.Equal(t, "red", upper.Color)

	lower, _ = Bands(0.3, 0.1)
	assert.InDelta(t, 0.2, lower.From, 1e-12)
}

func TestGaugeSteps(t *testing.T) {
	g := Gauge(0.35, 0.2, 0.05)
	assert.Equal(t, 0.35, g.Value)
	assert.Equal(t, 0.2, g.Reference)
	assert.InDelta(t, 0.15, g.Delta, 1e-12)
	assert.Equal(t, 0.0, g.AxisMin)
	assert.Equal(t, 1.0, g.AxisMax)

	require.Len(t, g.Steps, 4)
	assert.Equal(t, model.GaugeStep{From: 0, To: 0.2, Color: "lightgray"}, g.Steps[0])
	assert.InDelta(t, 0.25, g.Steps[1].From, 1e-12)
	assert.InDelta(t, 0.3, g.Steps[1].To, 1e-12)
	assert.Equal(t, "lightsalmon", g.Steps[1].Color)
	assert.InDelta(t, 0.3, g.Steps[2].From, 1e-12)
	assert.Equal(t, 0.8, g.Steps[2].To)
	assert.Equal(t, "red", g.Steps[2].Color)
	assert.Equal(t, model.GaugeStep{From: 0.8, To: 1, Color: "darkred"}, g.Steps[3])
}

func TestPanel(t *testing.T) {
	res := model.StressResult{
		Status:  model.StressOK,
		Code:    "DE",
		Country: "Germany",
		Table: &model.Table{
			Index:   []time.Time{day("2005-01-03"), day("2005-01-04"), day("2005-01-05")},
			Columns: []string{"Germany"},
			Values:  [][]float64{{0.1, 0.2, 0.3}},
		},
	}

	p := Panel(res, day("2005-01-01"), true)
	assert.Empty(t, p.Note)
	assert.InDelta(t, 0.2, p.Mean, 1e-12)
	require.NotNil(t, p.Gauge)
	assert.Equal(t, 0.3, p.Gauge.Value)

	p = Panel(res, day("2005-01-01"), false)
	assert.Nil(t, p.Gauge)

	failed := model.StressResult{Status: model.StressFetchError, Code: "DE", Err: errors.New("boom")}
	p = Panel(failed, day("2005-01-01"), true)
	assert.Equal(t, "boom", p.Note)
	assert.Nil(t, p.Gauge)

	p = Panel(res, day("2006-01-01"), true)
	assert.Contains(t, p.Note, "statistics unavailable")
}
