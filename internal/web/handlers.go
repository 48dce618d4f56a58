package web

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"EconDashboard/internal/chart"
	"EconDashboard/internal/export"
	"EconDashboard/internal/model"
	"EconDashboard/internal/report"
)

type chartView struct {
	Title string
	Src   template.URL
	Error string
}

type dashboardView struct {
	Title            string
	Cards            []report.Card
	ConfidenceCharts []chartView
	LatestRelease    string
	Gauges           []report.GaugeCard
	StressCharts     []chartView
	LatestUpdate     string
	Countries        []model.Country
	Selected         string
}

type stressView struct {
	Title      string
	Code       string
	Country    string
	Chart      chartView
	Latest     string
	LatestDate string
	Mean       string
	Std        string
	Lower      string
	Upper      string
	CSVURL     string
	XLSXURL    string
	Filename   string
	Countries  []model.Country
	Selected   string
}

type errorView struct {
	Title   string
	Message string
}

func (a *App) render(w http.ResponseWriter, page string, status int, data any) {
	var buf bytes.Buffer
	if err := a.templates[page].ExecuteTemplate(&buf, "base", data); err != nil {
		a.Logger.Error("execute template", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (a *App) renderError(w http.ResponseWriter, message string, status int) {
	a.render(w, "error", status, errorView{Title: http.StatusText(status), Message: message})
}

// pngDataURI renders a chart into an inline image source.
func pngDataURI(draw func(io.Writer) error) (template.URL, error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.Collector.Dashboard(r.Context())
	if err != nil {
		a.renderError(w, "The confidence indicators could not be loaded from the OECD. Please try again later.", http.StatusBadGateway)
		return
	}
	win := a.Collector.Windows

	view := dashboardView{
		Title:         "Economic Dashboard",
		Cards:         report.ConfidenceCards(d.Confidence.Cards),
		LatestRelease: report.FormatLatestRelease(d.Confidence.LatestRelease),
		Gauges:        report.Gauges(d.Stress),
		LatestUpdate:  report.FormatLatestUpdate(d.LatestUpdate),
		Countries:     model.StressPanels,
		Selected:      model.StressPanels[0].Code,
	}

	for _, c := range model.ConfidencePanels {
		cv := chartView{Title: c.Name}
		src, err := pngDataURI(func(out io.Writer) error {
			return chart.Confidence(out, d.Confidence.CCI, d.Confidence.BCI, c, win.ConfidenceSince, chart.ConfidenceSize)
		})
		if err != nil {
			a.Logger.Warn("confidence chart unavailable", zap.String("code", c.Code), zap.Error(err))
			cv.Error = "No data available."
		}
		cv.Src = src
		view.ConfidenceCharts = append(view.ConfidenceCharts, cv)
	}

	for _, p := range d.Stress {
		cv := chartView{Title: p.Result.Country}
		if cv.Title == "" {
			cv.Title = p.Result.Code
		}
		if p.Note != "" {
			cv.Error = "Data unavailable: " + p.Note
			view.StressCharts = append(view.StressCharts, cv)
			continue
		}
		src, err := pngDataURI(func(out io.Writer) error {
			return chart.Stress(out, p, win.StressSince, chart.StressSize)
		})
		if err != nil {
			a.Logger.Warn("stress chart unavailable", zap.String("code", p.Result.Code), zap.Error(err))
			cv.Error = "No data available."
		}
		cv.Src = src
		view.StressCharts = append(view.StressCharts, cv)
	}

	a.render(w, "dashboard", http.StatusOK, view)
}

// stressStatusCode maps a failed stress load to an HTTP status.
func stressStatusCode(res model.StressResult) int {
	if res.Status == model.StressInvalidCode {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (a *App) handleStress(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("country")
	if code == "" {
		code = model.StressPanels[0].Code
	}

	p := a.Collector.StressPanel(r.Context(), code)
	if !p.Result.OK() {
		a.renderError(w, "Stress data for "+code+" is not available.", stressStatusCode(p.Result))
		return
	}

	res := p.Result
	view := stressView{
		Title:     res.Country + " systemic stress",
		Code:      res.Code,
		Country:   res.Country,
		Chart:     chartView{Title: res.Country},
		Latest:    report.FormatStress(p.Latest),
		Mean:      report.FormatStress(p.Mean),
		Std:       report.FormatStress(p.Std),
		Lower:     report.FormatStress(p.Lower.From) + " to " + report.FormatStress(p.Lower.To),
		Upper:     report.FormatStress(p.Upper.From) + " to " + report.FormatStress(p.Upper.To),
		CSVURL:    "/download/" + res.Code + "." + export.FormatCSV,
		XLSXURL:   "/download/" + res.Code + "." + export.FormatXLSX,
		Filename:  export.Filename(res.Country, export.FormatCSV, a.Now()),
		Countries: model.StressPanels,
		Selected:  res.Code,
	}
	if last, ok := res.Table.LastDate(); ok {
		view.LatestDate = report.FormatLatestUpdate(last)
	}
	if p.Note != "" {
		view.Chart.Error = p.Note
	} else {
		src, err := pngDataURI(func(out io.Writer) error {
			return chart.Stress(out, p, a.Collector.Windows.StressSince, chart.StressSize)
		})
		if err != nil {
			a.Logger.Warn("stress chart unavailable", zap.String("code", code), zap.Error(err))
			view.Chart.Error = "No data available."
		}
		view.Chart.Src = src
	}

	a.render(w, "stress", http.StatusOK, view)
}

// splitFile separates "DE.csv" into code and extension.
func splitFile(file string) (code, ext string) {
	ext = path.Ext(file)
	return strings.TrimSuffix(file, ext), strings.TrimPrefix(ext, ".")
}

func writePNG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

func (a *App) handleConfidenceChart(w http.ResponseWriter, r *http.Request) {
	code, ext := splitFile(chi.URLParam(r, "file"))
	country, ok := model.ConfidenceCountry(code)
	if ext != "png" || !ok {
		a.renderError(w, "Unknown chart.", http.StatusNotFound)
		return
	}

	cci, bci, err := a.Collector.Confidence.LoadConfidence(r.Context())
	if err != nil {
		a.Logger.Error("confidence load failed", zap.Error(err))
		a.renderError(w, "The confidence indicators could not be loaded.", http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := chart.Confidence(&buf, cci, bci, country, a.Collector.Windows.ConfidenceSince, chart.ConfidenceSize); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chart.ErrNoData) {
			status = http.StatusNotFound
		}
		a.renderError(w, "Chart unavailable.", status)
		return
	}
	writePNG(w, &buf)
}

func (a *App) handleStressChart(w http.ResponseWriter, r *http.Request) {
	code, ext := splitFile(chi.URLParam(r, "file"))
	if ext != "png" {
		a.renderError(w, "Unknown chart.", http.StatusNotFound)
		return
	}

	p := a.Collector.StressPanel(r.Context(), code)
	if !p.Result.OK() {
		a.renderError(w, "Stress data for "+code+" is not available.", stressStatusCode(p.Result))
		return
	}

	var buf bytes.Buffer
	if err := chart.Stress(&buf, p, a.Collector.Windows.StressSince, chart.StressSize); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chart.ErrNoData) {
			status = http.StatusNotFound
		}
		a.renderError(w, "Chart unavailable.", status)
		return
	}
	writePNG(w, &buf)
}

func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	code, format := splitFile(chi.URLParam(r, "file"))
	if format != export.FormatCSV && format != export.FormatXLSX {
		a.renderError(w, "Unsupported download format.", http.StatusNotFound)
		return
	}

	res := a.Collector.Stress.LoadStress(r.Context(), code)
	if !res.OK() {
		a.renderError(w, "Stress data for "+code+" is not available.", stressStatusCode(res))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, res.Table, format); err != nil {
		a.Logger.Error("export failed", zap.String("code", code), zap.String("format", format), zap.Error(err))
		a.renderError(w, "The download could not be prepared.", http.StatusInternalServerError)
		return
	}

	name := export.Filename(res.Country, format, a.Now())
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Write(buf.Bytes())
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
