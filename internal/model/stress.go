package model

import "time"

// StressStatus classifies the outcome of a stress series load.
type StressStatus string

const (
	StressOK          StressStatus = "OK"
	StressInvalidCode StressStatus = "INVALID_CODE"
	StressFetchError  StressStatus = "FETCH_ERROR"
)

// StressResult is the outcome of loading one country's CISS series.
// Table is set only when Status is StressOK.
type StressResult struct {
	Status  StressStatus
	Code    string
	Country string
	Table   *Table
	Err     error
}

// OK reports whether the series loaded.
func (r StressResult) OK() bool {
	return r.Status == StressOK && r.Table != nil
}

// Gauge describes a dial for the latest stress reading.
type Gauge struct {
	Value     float64
	Reference float64
	Delta     float64
	AxisMin   float64
	AxisMax   float64
	Steps     []GaugeStep
}

// GaugeStep is a coloured range on a gauge axis.
type GaugeStep struct {
	From  float64
	To    float64
	Color string
}

// Band is a shaded horizontal range on a chart.
type Band struct {
	From  float64
	To    float64
	Color string
}

// StressPanel holds everything displayed for one country in the stress section.
type StressPanel struct {
	Result StressResult
	Mean   float64
	Std    float64
	Latest float64
	Lower  Band
	Upper  Band
	Gauge  *Gauge
	Note   string
}

// MetricCard is a headline value with its change from the previous observation.
type MetricCard struct {
	Code  string
	Label string
	Value float64
	Delta float64
	Valid bool
}

// ConfidenceSection holds the confidence tables and per-country cards.
type ConfidenceSection struct {
	CCI           *Table
	BCI           *Table
	Cards         []MetricCard
	LatestRelease time.Time
}

// Dashboard is one fully loaded rendering pass.
type Dashboard struct {
	Confidence   ConfidenceSection
	Stress       []StressPanel
	LatestUpdate time.Time
	LoadedAt     time.Time
}
