package model

// Country pairs a provider dimension code with its display name.
type Country struct {
	Code string
	Name string
}

// StressCountries lists the ECB CISS reference areas the stress loader accepts.
var StressCountries = map[string]string{
	"IE": "Ireland",
	"DE": "Germany",
	"GB": "United Kingdom",
	"NL": "Netherlands",
	"US": "United States",
	"IT": "Italy",
	"FR": "France",
	"U2": "Europe",
}

// StressPanels is the display order of the stress section.
var StressPanels = []Country{
	{"U2", "Europe"},
	{"IE", "Ireland"},
	{"DE", "Germany"},
	{"GB", "United Kingdom"},
	{"NL", "Netherlands"},
	{"US", "United States"},
	{"FR", "France"},
}

// ConfidencePanels is the display order of the confidence section (OECD LOCATION codes).
var ConfidencePanels = []Country{
	{"IRL", "Ireland"},
	{"DEU", "Germany"},
	{"GBR", "United Kingdom"},
	{"NLD", "Netherlands"},
	{"POL", "Poland"},
	{"ITA", "Italy"},
	{"FRA", "France"},
	{"OECDE", "OECD Europe"},
}

// NoGaugeCodes are stress panels rendered without a gauge.
var NoGaugeCodes = map[string]bool{"FR": true}

// StressCountryName resolves a stress code. Lookup is exact.
func StressCountryName(code string) (string, bool) {
	name, ok := StressCountries[code]
	return name, ok
}

// ConfidenceCountry resolves an OECD location code from the dashboard set.
func ConfidenceCountry(code string) (Country, bool) {
	for _, c := range ConfidencePanels {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}
