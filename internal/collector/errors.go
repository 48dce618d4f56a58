package collector

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCountry marks a country code outside the known catalog.
	ErrUnknownCountry = errors.New("unknown country code")
	// ErrEmptyResponse marks a response with no body or no data rows.
	ErrEmptyResponse = errors.New("empty response")
)

// StatusError is returned for a non-2xx upstream response.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d from %s: %s", e.Code, e.URL, e.Body)
}

// Retryable reports whether the request may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500 || e.Code == 429
}

// SchemaError is returned when a CSV payload lacks expected columns or holds
// unparsable cells.
type SchemaError struct {
	Source  string
	Missing []string
	Detail  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing columns %s", e.Source, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Detail)
}
