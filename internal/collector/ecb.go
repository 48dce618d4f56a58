package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"EconDashboard/internal/metrics"
	"EconDashboard/internal/model"
)

const (
	ecbFlow        = "CISS"
	ecbStartPeriod = "2000-01-01"

	colTimePeriod = "TIME_PERIOD"
	colObsValue   = "OBS_VALUE"
)

// ECBFetcher implements StressFetcher using the ECB statistical data
// warehouse REST service.
type ECBFetcher struct {
	EntryPoint string
	Client     *Client
	Logger     *zap.Logger
	Metrics    *metrics.Collector
	Now        func() time.Time
}

// NewECBFetcher creates a fetcher for the given service entry point
// (e.g. https://sdw-wsrest.ecb.europa.eu/service/).
func NewECBFetcher(entryPoint string, client *Client, logger *zap.Logger, m *metrics.Collector) *ECBFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ECBFetcher{
		EntryPoint: entryPoint,
		Client:     client,
		Logger:     logger,
		Metrics:    m,
		Now:        time.Now,
	}
}

func (f *ECBFetcher) Name() string { return "ecb" }

// SeriesKey returns the CISS dimension key for a country, e.g. D.DE.Z0Z.4F.EC.SS_CIN.IDX.
func SeriesKey(code string) string {
	return "D." + code + ".Z0Z.4F.EC.SS_CIN.IDX"
}

// StressURL builds the data query for code ending at the given day.
func (f *ECBFetcher) StressURL(code string, end time.Time) string {
	entry := f.EntryPoint
	if !strings.HasSuffix(entry, "/") {
		entry += "/"
	}
	return entry + "data/" + ecbFlow + "/" + SeriesKey(code) +
		"?startPeriod=" + ecbStartPeriod + "&endPeriod=" + end.Format("2006-01-02")
}

// LoadStress fetches the CISS series for code. Unknown codes are logged and
// reported as StressInvalidCode without touching the network.
func (f *ECBFetcher) LoadStress(ctx context.Context, code string) model.StressResult {
	name, ok := model.StressCountryName(code)
	if !ok {
		f.Logger.Warn("country code not available",
			zap.String("code", code),
			zap.String("catalog", "https://sdw.ecb.europa.eu/browseSelection.do?node=9689686"))
		f.Metrics.StressLoad(string(model.StressInvalidCode))
		return model.StressResult{
			Status: model.StressInvalidCode,
			Code:   code,
			Err:    fmt.Errorf("%w: %q", ErrUnknownCountry, code),
		}
	}

	var table *model.Table
	err := f.Client.Fetch(ctx, f.StressURL(code, f.Now()), "text/csv", func(body []byte) error {
		t, err := ParseStressCSV(name, body)
		if err != nil {
			return err
		}
		table = t
		return nil
	})
	if err != nil {
		f.Logger.Error("stress series load failed", zap.String("code", code), zap.Error(err))
		f.Metrics.StressLoad(string(model.StressFetchError))
		return model.StressResult{Status: model.StressFetchError, Code: code, Country: name, Err: err}
	}

	f.Metrics.StressLoad(string(model.StressOK))
	return model.StressResult{Status: model.StressOK, Code: code, Country: name, Table: table}
}

// ParseStressCSV keeps TIME_PERIOD and OBS_VALUE and returns a single-column
// table named after the country.
func ParseStressCSV(country string, body []byte) (*model.Table, error) {
	source := "ecb " + country
	t, err := readCSV(source, body)
	if err != nil {
		return nil, err
	}
	if err := t.require(colTimePeriod, colObsValue); err != nil {
		return nil, err
	}

	recs, err := t.records(colTimePeriod, "", colObsValue, country)
	if err != nil {
		return nil, err
	}
	table := pivot(recs)
	if !table.HasColumn(country) || table.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyResponse)
	}
	return table, nil
}
