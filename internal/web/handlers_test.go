package web

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"EconDashboard/internal/collector"
	"EconDashboard/internal/metrics"
	"EconDashboard/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func confidenceTables() (*model.Table, *model.Table) {
	var idx []time.Time
	for i := 0; i < 36; i++ {
		idx = append(idx, day(2018, 1, 1).AddDate(0, i, 0))
	}
	codes := make([]string, 0, len(model.ConfidencePanels))
	for _, c := range model.ConfidencePanels {
		codes = append(codes, c.Code)
	}
	build := func(base float64) *model.Table {
		t := &model.Table{Index: idx, Columns: codes}
		for ci := range codes {
			col := make([]float64, len(idx))
			for i := range col {
				col[i] = base + float64(ci)/4 + math.Sin(float64(i)/5)
			}
			t.Values = append(t.Values, col)
		}
		return t
	}
	return build(99), build(100)
}

func stressTable(name string) *model.Table {
	t := &model.Table{Columns: []string{name}}
	col := []float64{}
	for i := 0; i < 120; i++ {
		t.Index = append(t.Index, day(2000, 1, 3).AddDate(0, 2*i, 0))
		col = append(col, 0.15+0.1*math.Sin(float64(i)/9))
	}
	t.Values = [][]float64{col}
	return t
}

type fixture struct {
	app    *App
	conf   *collector.MockConfidence
	stress *collector.MockStress
	m      *metrics.Collector
	server http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cci, bci := confidenceTables()
	conf := &collector.MockConfidence{CCI: cci, BCI: bci}
	stress := &collector.MockStress{Tables: map[string]*model.Table{}, Errs: map[string]error{}}
	for _, c := range model.StressPanels {
		stress.Tables[c.Code] = stressTable(c.Name)
	}
	col := collector.NewCollector(conf, stress, collector.Windows{
		ConfidenceSince: day(2019, 1, 1),
		StressSince:     day(2000, 1, 1),
		StatsSince:      day(2005, 1, 1),
	}, nil)

	m := metrics.New("test")
	app, err := NewApp(col, m, nil)
	require.NoError(t, err)
	app.Now = func() time.Time { return time.Date(2024, 1, 2, 12, 0, 0, 0, time.Local) }
	return &fixture{app: app, conf: conf, stress: stress, m: m, server: app.Routes()}
}

func (f *fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboardPage(t *testing.T) {
	f := newFixture(t)
	f.stress.Errs["US"] = errors.New("upstream down")

	rec := f.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, "Business and Consumer Confidence")
	assert.Contains(t, body, "OECD Europe")
	assert.Contains(t, body, "Latest Release: December-2020")
	assert.Contains(t, body, "United States: Data unavailable: upstream down")
	assert.Contains(t, body, "data:image/png;base64,")
	// one gauge per loaded panel, France excluded
	assert.Equal(t, 5, strings.Count(body, `class="needle"`))
	assert.Contains(t, body, "Latest Update: ")
}

func TestDashboardConfidenceFailure(t *testing.T) {
	f := newFixture(t)
	f.conf.Err = errors.New("oecd down")

	rec := f.get(t, "/")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be loaded")
	assert.Empty(t, f.stress.Calls)
}

func TestStressPage(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/stress?country=DE")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Germany: Composite Indicator of Systemic Stress")
	assert.Contains(t, body, `href="/download/DE.csv"`)
	assert.Contains(t, body, "Germany_ciss_ecb_2024-01-02.csv")

	rec = f.get(t, "/stress")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Europe: Composite Indicator")

	rec = f.get(t, "/stress?country=de")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadCSV(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/download/DE.csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Germany_ciss_ecb_2024-01-02.csv"`, rec.Header().Get("Content-Disposition"))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	tbl := f.stress.Tables["DE"]
	col, _ := tbl.Column("Germany")
	require.Len(t, rows, tbl.Len()+1)
	assert.Equal(t, []string{"TIME_PERIOD", "Germany"}, rows[0])
	for i, row := range rows[1:] {
		assert.Equal(t, tbl.Index[i].Format("2006-01-02"), row[0])
		v, err := strconv.ParseFloat(row[1], 64)
		require.NoError(t, err)
		assert.Equal(t, col[i], v)
	}
}

func TestDownloadXLSX(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/download/GB.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "United Kingdom_ciss_ecb_2024-01-02.xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"United Kingdom"}, wb.GetSheetList())
}

func TestDownloadErrors(t *testing.T) {
	f := newFixture(t)
	f.stress.Errs["NL"] = errors.New("timeout")

	assert.Equal(t, http.StatusNotFound, f.get(t, "/download/XX.csv").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/download/DE.pdf").Code)
	assert.Equal(t, http.StatusBadGateway, f.get(t, "/download/NL.csv").Code)
}

func TestChartRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/charts/confidence/IRL.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = f.get(t, "/charts/stress/U2.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	assert.Equal(t, http.StatusNotFound, f.get(t, "/charts/confidence/USA.png").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/charts/stress/XX.png").Code)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/charts/stress/DE.svg").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_http_requests_total")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.m.HTTPRequests.WithLabelValues("GET", "/healthz", "200")))

	assert.Equal(t, http.StatusNotFound, f.get(t, "/nope").Code)
}
