package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"EconDashboard/internal/model"
)

// ErrNoData is returned when a panel has fewer than two plottable points.
var ErrNoData = errors.New("not enough data to plot")

// Size is the pixel size of a rendered PNG.
type Size struct {
	Width  int
	Height int
}

var (
	// ConfidenceSize matches one cell of the four-wide confidence grid.
	ConfidenceSize = Size{Width: 360, Height: 270}
	// StressSize is used for the stress panels and the download chart.
	StressSize = Size{Width: 720, Height: 360}
)

var (
	colorCCI       = drawing.ColorFromHex("800080") // purple
	colorBCI       = drawing.ColorFromHex("DB7093") // palevioletred
	colorReference = drawing.ColorBlack
	colorStress    = drawing.ColorFromHex("000080") // navy
	colorMean      = drawing.ColorFromHex("DC143C") // crimson
	colorLowerBand = drawing.ColorFromHex("CCE6CC")
	colorUpperBand = drawing.ColorFromHex("FFCCCC")
)

// Confidence y-axis bounds and the neutral level of the indices.
const (
	confidenceMin = 90.0
	confidenceMax = 107.0
	neutralLevel  = 100.0
)

// points drops NaN observations, which go-chart cannot draw.
func points(dates []time.Time, values []float64) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(dates))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		xs = append(xs, dates[i])
		ys = append(ys, v)
	}
	return xs, ys
}

// hline spans a constant value across [from, to].
func hline(name string, from, to time.Time, y float64, style chart.Style) chart.TimeSeries {
	return chart.TimeSeries{
		Name:    name,
		XValues: []time.Time{from, to},
		YValues: []float64{y, y},
		Style:   style,
	}
}

func line(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 2}
}

func fill(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 0, FillColor: c}
}

func render(w io.Writer, ch chart.Chart) error {
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", ch.Title, err)
	}
	return nil
}

// Confidence draws CCI and BCI for one country since the given date, with the
// neutral level marked.
func Confidence(w io.Writer, cci, bci *model.Table, country model.Country, since time.Time, size Size) error {
	var series []chart.Series
	var first, last time.Time

	for _, s := range []struct {
		name  string
		table *model.Table
		color drawing.Color
	}{
		{"CCI", cci, colorCCI},
		{"BCI", bci, colorBCI},
	} {
		dates, vals, ok := s.table.Series(country.Code, since)
		if !ok {
			continue
		}
		xs, ys := points(dates, vals)
		if len(xs) < 2 {
			continue
		}
		if first.IsZero() || xs[0].Before(first) {
			first = xs[0]
		}
		if xs[len(xs)-1].After(last) {
			last = xs[len(xs)-1]
		}
		series = append(series, chart.TimeSeries{Name: s.name, XValues: xs, YValues: ys, Style: line(s.color)})
	}
	if len(series) == 0 {
		return fmt.Errorf("%s: %w", country.Code, ErrNoData)
	}
	series = append(series, hline("100", first, last, neutralLevel, line(colorReference)))

	return render(w, chart.Chart{
		Title:  country.Name,
		Width:  size.Width,
		Height: size.Height,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 06")},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: confidenceMin, Max: confidenceMax},
			ValueFormatter: func(v interface{}) string { return chart.FloatValueFormatterWithFormat(v, "%.0f") },
		},
		Series: series,
	})
}

// Stress draws a country's CISS series since the given date with its mean and
// the one standard deviation bands around it.
func Stress(w io.Writer, p model.StressPanel, since time.Time, size Size) error {
	res := p.Result
	if !res.OK() {
		return fmt.Errorf("%s: %w", res.Code, ErrNoData)
	}
	dates, vals, _ := res.Table.Series(res.Country, since)
	xs, ys := points(dates, vals)
	if len(xs) < 2 {
		return fmt.Errorf("%s: %w", res.Code, ErrNoData)
	}
	first, last := xs[0], xs[len(xs)-1]

	top := p.Upper.To
	for _, v := range ys {
		top = math.Max(top, v)
	}

	// Opaque fills are stacked from the top down so each band shows only
	// its own range.
	series := []chart.Series{
		hline("mean +/- 1 std", first, last, p.Upper.To, fill(colorUpperBand)),
		hline("", first, last, p.Lower.To, fill(colorLowerBand)),
		hline("", first, last, p.Lower.From, fill(drawing.ColorWhite)),
		chart.TimeSeries{Name: res.Country, XValues: xs, YValues: ys, Style: line(colorStress)},
		hline(fmt.Sprintf("mean: %.2f", p.Mean), first, last, p.Mean, line(colorMean)),
	}

	return render(w, chart.Chart{
		Title:  res.Country,
		Width:  size.Width,
		Height: size.Height,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeValueFormatterWithFormat("2006")},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: top * 1.05},
			ValueFormatter: func(v interface{}) string { return chart.FloatValueFormatterWithFormat(v, "%.2f") },
		},
		Series: series,
	})
}
