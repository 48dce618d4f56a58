package collector

import (
	"context"

	"EconDashboard/internal/model"
)

// ConfidenceFetcher loads the consumer and business confidence tables.
type ConfidenceFetcher interface {
	LoadConfidence(ctx context.Context) (cci, bci *model.Table, err error)
	Name() string
}

// StressFetcher loads one country's systemic stress series.
type StressFetcher interface {
	LoadStress(ctx context.Context, code string) model.StressResult
	Name() string
}
