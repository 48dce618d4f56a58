package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"

	"EconDashboard/internal/collector"
	"EconDashboard/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages maps a page name to the files it is parsed from.
var pages = map[string][]string{
	"dashboard": {"templates/base.html", "templates/dashboard.html"},
	"stress":    {"templates/base.html", "templates/stress.html"},
	"error":     {"templates/base.html", "templates/error.html"},
}

// App carries everything the handlers need. There is no package state.
type App struct {
	Collector *collector.Collector
	Metrics   *metrics.Collector
	Logger    *zap.Logger
	Now       func() time.Time

	templates map[string]*template.Template
}

// NewApp parses the page templates and returns a ready App.
func NewApp(col *collector.Collector, m *metrics.Collector, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		Collector: col,
		Metrics:   m,
		Logger:    logger,
		Now:       time.Now,
		templates: make(map[string]*template.Template, len(pages)),
	}
	for name, files := range pages {
		tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		a.templates[name] = tmpl
	}
	return a, nil
}

var funcs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
}
