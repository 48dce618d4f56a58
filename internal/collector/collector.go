package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"EconDashboard/internal/calculator"
	"EconDashboard/internal/model"
)

// Windows sets the start dates used when summarising loaded series.
type Windows struct {
	ConfidenceSince time.Time
	StressSince     time.Time
	StatsSince      time.Time
}

// Collector orchestrates the loaders and derives the dashboard figures.
type Collector struct {
	Confidence ConfidenceFetcher
	Stress     StressFetcher
	Windows    Windows
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(conf ConfidenceFetcher, stress StressFetcher, w Windows, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Confidence: conf, Stress: stress, Windows: w, Logger: logger, Now: time.Now}
}

// Dashboard loads both sections. A confidence failure aborts the whole pass;
// stress failures only degrade their own panel.
func (c *Collector) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	conf, err := c.ConfidenceSection(ctx)
	if err != nil {
		return nil, err
	}

	d := &model.Dashboard{Confidence: *conf, LoadedAt: c.Now()}
	for _, country := range model.StressPanels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := c.StressPanel(ctx, country.Code)
		d.Stress = append(d.Stress, p)
		if p.Result.OK() {
			if last, ok := p.Result.Table.LastDate(); ok {
				d.LatestUpdate = last
			}
		}
	}
	return d, nil
}

// ConfidenceSection loads CCI and BCI and builds one card per dashboard country.
func (c *Collector) ConfidenceSection(ctx context.Context) (*model.ConfidenceSection, error) {
	cci, bci, err := c.Confidence.LoadConfidence(ctx)
	if err != nil {
		c.Logger.Error("confidence load failed", zap.String("source", c.Confidence.Name()), zap.Error(err))
		return nil, fmt.Errorf("confidence: %w", err)
	}

	sec := &model.ConfidenceSection{CCI: cci, BCI: bci}
	for _, country := range model.ConfidencePanels {
		card, err := calculator.Card(cci, country, c.Windows.ConfidenceSince)
		if err != nil {
			c.Logger.Warn("confidence card unavailable", zap.String("code", country.Code), zap.Error(err))
		}
		sec.Cards = append(sec.Cards, card)
	}

	if dates, _, ok := cci.Series(model.ConfidencePanels[0].Code, c.Windows.ConfidenceSince); ok && len(dates) > 0 {
		sec.LatestRelease = dates[len(dates)-1]
	}
	return sec, nil
}

// StressPanel loads one country's series and derives its statistics.
func (c *Collector) StressPanel(ctx context.Context, code string) model.StressPanel {
	res := c.Stress.LoadStress(ctx, code)
	p := calculator.Panel(res, c.Windows.StatsSince, !model.NoGaugeCodes[code])
	if res.OK() && p.Note != "" {
		c.Logger.Warn("stress panel degraded", zap.String("code", code), zap.String("note", p.Note))
	}
	return p
}

// MockConfidence returns fixed confidence tables for development and testing.
type MockConfidence struct {
	CCI, BCI *model.Table
	Err      error
	Calls    int
}

func (m *MockConfidence) Name() string { return "mock" }

func (m *MockConfidence) LoadConfidence(_ context.Context) (*model.Table, *model.Table, error) {
	m.Calls++
	if m.Err != nil {
		return nil, nil, m.Err
	}
	return m.CCI, m.BCI, nil
}

// MockStress returns fixed stress series keyed by code.
type MockStress struct {
	Tables map[string]*model.Table
	Errs   map[string]error
	Calls  []string
}

func (m *MockStress) Name() string { return "mock" }

func (m *MockStress) LoadStress(_ context.Context, code string) model.StressResult {
	m.Calls = append(m.Calls, code)
	name, ok := model.StressCountryName(code)
	if !ok {
		return model.StressResult{Status: model.StressInvalidCode, Code: code, Err: ErrUnknownCountry}
	}
	if err := m.Errs[code]; err != nil {
		return model.StressResult{Status: model.StressFetchError, Code: code, Country: name, Err: err}
	}
	t, ok := m.Tables[code]
	if !ok {
		return model.StressResult{Status: model.StressFetchError, Code: code, Country: name, Err: ErrEmptyResponse}
	}
	return model.StressResult{Status: model.StressOK, Code: code, Country: name, Table: t}
}
