package report

import (
	"fmt"
	"math"
	"time"

	"EconDashboard/internal/model"
)

// FormatLatestRelease renders the month of the latest confidence release, e.g. January-2024.
func FormatLatestRelease(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Format("January-2006")
}

// FormatLatestUpdate renders the day of the latest stress observation, e.g. 02-January-2024.
func FormatLatestUpdate(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Format("02-January-2006")
}

// FormatValue renders a headline value with one decimal place.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

// FormatDelta renders a signed change with the given number of decimals.
func FormatDelta(v float64, places int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%+.*f", places, v)
}

// FormatStress renders a stress index reading.
func FormatStress(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

// Card is the display form of a metric card.
type Card struct {
	Label     string
	Value     string
	Delta     string
	Direction string // up, down or flat
}

// ConfidenceCards converts metric cards for display. Invalid cards show dashes.
func ConfidenceCards(cards []model.MetricCard) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !c.Valid {
			out = append(out, Card{Label: c.Label, Value: "-", Delta: "-", Direction: "flat"})
			continue
		}
		out = append(out, Card{
			Label:     c.Label,
			Value:     FormatValue(c.Value),
			Delta:     FormatDelta(c.Delta, 1),
			Direction: direction(c.Delta),
		})
	}
	return out
}

// GaugeCard is the display form of a stress gauge. Position values are
// percentages of the gauge axis.
type GaugeCard struct {
	Label     string
	Value     string
	Delta     string
	Direction string
	Position  float64
	Steps     []GaugeStepView
}

// GaugeStepView is a gauge step placed on a 0-100 scale.
type GaugeStepView struct {
	Left  float64
	Width float64
	Color string
}

// Gauges converts the stress panels that carry a gauge.
func Gauges(panels []model.StressPanel) []GaugeCard {
	var out []GaugeCard
	for _, p := range panels {
		g := p.Gauge
		if g == nil {
			continue
		}
		gc := GaugeCard{
			Label:     p.Result.Country,
			Value:     FormatStress(g.Value),
			Delta:     FormatDelta(g.Delta, 3),
			Direction: stressDirection(g.Delta),
			Position:  scale(g.Value, g.AxisMin, g.AxisMax),
		}
		for _, s := range g.Steps {
			left := scale(s.From, g.AxisMin, g.AxisMax)
			right := scale(s.To, g.AxisMin, g.AxisMax)
			if right <= left {
				continue
			}
			gc.Steps = append(gc.Steps, GaugeStepView{Left: left, Width: right - left, Color: s.Color})
		}
		out = append(out, gc)
	}
	return out
}

// scale maps v from [lo, hi] onto [0, 100], clamped.
func scale(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	pct := (v - lo) / (hi - lo) * 100
	return math.Max(0, math.Min(100, pct))
}

func direction(d float64) string {
	switch {
	case d > 0:
		return "up"
	case d < 0:
		return "down"
	default:
		return "flat"
	}
}

// stressDirection inverts the colouring: rising stress is bad news.
func stressDirection(d float64) string {
	switch direction(d) {
	case "up":
		return "down"
	case "down":
		return "up"
	}
	return "flat"
}
