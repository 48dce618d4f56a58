package calculator

import (
	"math"
	"time"

	"EconDashboard/internal/model"
)

// Gauge axis and the fixed upper thresholds of the stress scale.
const (
	GaugeMin      = 0.0
	GaugeMax      = 1.0
	GaugeSevere   = 0.8
	colorLower    = "green"
	colorUpper    = "red"
	colorCalm     = "lightgray"
	colorElevated = "lightsalmon"
	colorHigh     = "red"
	colorSevere   = "darkred"
)

// Bands returns the one standard deviation ranges below and above the mean.
// The lower band is clipped at zero.
func Bands(mean, std float64) (lower, upper model.Band) {
	lower = model.Band{From: math.Max(0, mean-std), To: mean, Color: colorLower}
	upper = model.Band{From: mean, To: mean + std, Color: colorUpper}
	return lower, upper
}

// Gauge builds the dial for the latest reading, with delta against the mean.
func Gauge(value, mean, std float64) *model.Gauge {
	return &model.Gauge{
		Value:     value,
		Reference: mean,
		Delta:     value - mean,
		AxisMin:   GaugeMin,
		AxisMax:   GaugeMax,
		Steps: []model.GaugeStep{
			{From: 0, To: mean, Color: colorCalm},
			{From: mean + std, To: mean + 2*std, Color: colorElevated},
			{From: mean + 2*std, To: GaugeSevere, Color: colorHigh},
			{From: GaugeSevere, To: GaugeMax, Color: colorSevere},
		},
	}
}

// Panel fills the statistics, bands and gauge of a loaded stress result.
// Panels whose series cannot be summarised carry a note instead.
func Panel(res model.StressResult, statsFrom time.Time, withGauge bool) model.StressPanel {
	p := model.StressPanel{Result: res}
	if !res.OK() {
		p.Note = "data unavailable"
		if res.Err != nil {
			p.Note = res.Err.Error()
		}
		return p
	}
	s, err := Summarize(res.Table, res.Country, statsFrom)
	if err != nil {
		p.Note = "statistics unavailable: " + err.Error()
		return p
	}
	p.Mean, p.Std, p.Latest = s.Mean, s.Std, s.Latest
	p.Lower, p.Upper = Bands(s.Mean, s.Std)
	if withGauge {
		p.Gauge = Gauge(s.Latest, s.Mean, s.Std)
	}
	return p
}
