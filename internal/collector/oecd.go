package collector

import (
	"context"
	"fmt"
	"strings"

	"EconDashboard/internal/model"
)

// Columns of the DP_LIVE long-format export.
const (
	colLocation = "LOCATION"
	colTime     = "TIME"
	colValue    = "Value"
)

// oecdDropped are the metadata columns discarded before the pivot. Their
// presence is still required so schema drift fails loudly.
var oecdDropped = []string{"SUBJECT", "FREQUENCY", "MEASURE", "Flag Codes", "INDICATOR"}

// oecdQuery is appended to the dataset filter of every DP_LIVE request.
const oecdQuery = "/OECD?contentType=csv&detail=code&separator=comma&csv-lang=en"

// Indicator identifiers in the DP_LIVE dataset.
const (
	IndicatorCCI = "CCI"
	IndicatorBCI = "BCI"
)

// OECDFetcher implements ConfidenceFetcher against the OECD DP_LIVE CSV export.
type OECDFetcher struct {
	BaseURL string
	Client  *Client
}

// NewOECDFetcher creates a fetcher rooted at baseURL (the DP_LIVE dataset path).
func NewOECDFetcher(baseURL string, client *Client) *OECDFetcher {
	return &OECDFetcher{BaseURL: baseURL, Client: client}
}

func (f *OECDFetcher) Name() string { return "oecd" }

// IndicatorURL builds the export URL for one indicator, e.g.
// https://stats.oecd.org/sdmx-json/data/DP_LIVE/.CCI.../OECD?contentType=csv&detail=code&separator=comma&csv-lang=en
func (f *OECDFetcher) IndicatorURL(indicator string) string {
	base := f.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "." + indicator + "..." + oecdQuery
}

// LoadConfidence fetches CCI and BCI and pivots each into a date x location
// table. Any failure aborts the whole load.
func (f *OECDFetcher) LoadConfidence(ctx context.Context) (cci, bci *model.Table, err error) {
	cci, err = f.LoadIndicator(ctx, IndicatorCCI)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", IndicatorCCI, err)
	}
	bci, err = f.LoadIndicator(ctx, IndicatorBCI)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", IndicatorBCI, err)
	}
	return cci, bci, nil
}

// LoadIndicator fetches and reshapes a single DP_LIVE indicator.
func (f *OECDFetcher) LoadIndicator(ctx context.Context, indicator string) (*model.Table, error) {
	var table *model.Table
	err := f.Client.Fetch(ctx, f.IndicatorURL(indicator), "text/csv", func(body []byte) error {
		t, err := ParseConfidenceCSV(indicator, body)
		if err != nil {
			return err
		}
		table = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ParseConfidenceCSV reshapes a DP_LIVE long-format export into a wide table.
func ParseConfidenceCSV(source string, body []byte) (*model.Table, error) {
	t, err := readCSV(source, body)
	if err != nil {
		return nil, err
	}
	required := append([]string{colLocation, colTime, colValue}, oecdDropped...)
	if err := t.require(required...); err != nil {
		return nil, err
	}

	recs, err := t.records(colTime, colLocation, colValue, "")
	if err != nil {
		return nil, err
	}
	table := pivot(recs)
	if table.Empty() {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyResponse)
	}
	return table, nil
}
