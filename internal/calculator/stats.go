package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"EconDashboard/internal/model"
)

// ErrInsufficientData is returned when a series holds too few observations.
var ErrInsufficientData = errors.New("not enough data")

// finite returns the non-NaN values of a series.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the arithmetic mean, skipping NaN.
func Mean(values []float64) (float64, error) {
	vs := finite(values)
	if len(vs) == 0 {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs)), nil
}

// StdDev computes the sample standard deviation (n-1), skipping NaN.
func StdDev(values []float64) (float64, error) {
	vs := finite(values)
	if len(vs) < 2 {
		return 0, ErrInsufficientData
	}
	mean, _ := Mean(vs)
	ss := 0.0
	for _, v := range vs {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vs)-1)), nil
}

// Latest returns the last non-NaN value.
func Latest(values []float64) (float64, error) {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i], nil
		}
	}
	return 0, ErrInsufficientData
}

// Delta returns the change between the last two non-NaN values.
func Delta(values []float64) (float64, error) {
	vs := finite(values)
	if len(vs) < 2 {
		return 0, ErrInsufficientData
	}
	return vs[len(vs)-1] - vs[len(vs)-2], nil
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Window returns the values of column col dated on or after from.
func Window(t *model.Table, col string, from time.Time) ([]float64, error) {
	_, vals, ok := t.Series(col, from)
	if !ok {
		return nil, fmt.Errorf("column %q: %w", col, ErrInsufficientData)
	}
	return vals, nil
}

// Summary holds the reference statistics of a stress series.
type Summary struct {
	Mean   float64
	Std    float64
	Latest float64
}

// Summarize computes mean and std over the values dated on or after statsFrom,
// and the latest value over the whole series.
func Summarize(t *model.Table, col string, statsFrom time.Time) (Summary, error) {
	all, ok := t.Column(col)
	if !ok {
		return Summary{}, fmt.Errorf("column %q: %w", col, ErrInsufficientData)
	}
	latest, err := Latest(all)
	if err != nil {
		return Summary{}, fmt.Errorf("latest: %w", err)
	}
	window, err := Window(t, col, statsFrom)
	if err != nil {
		return Summary{}, err
	}
	mean, err := Mean(window)
	if err != nil {
		return Summary{}, fmt.Errorf("mean: %w", err)
	}
	std, err := StdDev(window)
	if err != nil {
		return Summary{}, fmt.Errorf("std: %w", err)
	}
	return Summary{Mean: mean, Std: std, Latest: latest}, nil
}

// Card builds the headline value and change of col since from, both rounded
// to one decimal place.
func Card(t *model.Table, country model.Country, from time.Time) (model.MetricCard, error) {
	card := model.MetricCard{Code: country.Code, Label: country.Name}
	window, err := Window(t, country.Code, from)
	if err != nil {
		return card, err
	}
	last, err := Latest(window)
	if err != nil {
		return card, fmt.Errorf("%s latest: %w", country.Code, err)
	}
	delta, err := Delta(window)
	if err != nil {
		return card, fmt.Errorf("%s delta: %w", country.Code, err)
	}
	card.Value = Round(last, 1)
	card.Delta = Round(delta, 1)
	card.Valid = true
	return card, nil
}
