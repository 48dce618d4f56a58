package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"EconDashboard/internal/cache"
	"EconDashboard/internal/collector"
	"EconDashboard/internal/config"
	"EconDashboard/internal/logging"
	"EconDashboard/internal/metrics"
)

var (
	flagConfig string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:          "econdash",
	Short:        "Economic confidence and systemic stress dashboard",
	Long:         "Fetches OECD confidence indicators and ECB systemic stress indices and presents them in a browser dashboard or the terminal.",
	SilenceUsage: true,
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", defaultConfig, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")

	rootCmd.AddCommand(serveCmd, confidenceCmd, stressCmd, exportCmd)
}

// deps holds the wired application shared by all subcommands.
type deps struct {
	cfg       *config.Config
	logger    *zap.Logger
	metrics   *metrics.Collector
	cache     cache.Cache
	collector *collector.Collector
}

// setup loads configuration and wires the loaders. quiet selects the
// error-only logger used by terminal commands.
func setup(quiet bool) (*deps, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.Quiet()
	if !quiet {
		if logger, err = logging.New(cfg.Environment); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	c, err := cache.New(cache.Options{TTL: cfg.Cache.TTL, SQLitePath: cfg.Cache.SQLitePath})
	if err != nil {
		logger.Warn("init response cache failed, caching disabled", zap.Error(err))
		c = cache.NewNoopCache()
	}

	m := metrics.New("econdash")
	opts := collector.ClientOptions{
		Timeout: cfg.Sources.Timeout,
		Proxy:   cfg.Proxy,
		Retries: cfg.Sources.Retries,
		Cache:   c,
		Metrics: m,
		Logger:  logger,
	}
	oecd := collector.NewOECDFetcher(cfg.Sources.OECDBaseURL, collector.NewClient("oecd", opts))
	ecb := collector.NewECBFetcher(cfg.Sources.ECBBaseURL, collector.NewClient("ecb", opts), logger, m)

	col := collector.NewCollector(oecd, ecb, collector.Windows{
		ConfidenceSince: config.Date(cfg.Dashboard.ConfidenceSince),
		StressSince:     config.Date(cfg.Dashboard.StressSince),
		StatsSince:      config.Date(cfg.Dashboard.StatsSince),
	}, logger)

	logger.Debug("runtime ready",
		zap.String("environment", cfg.Environment),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
		zap.Bool("sqlite_cache", cfg.Cache.SQLitePath != ""))

	return &deps{cfg: cfg, logger: logger, metrics: m, cache: c, collector: col}, nil
}

func (r *deps) Close() {
	if err := r.cache.Close(); err != nil {
		r.logger.Warn("close cache", zap.Error(err))
	}
	_ = r.logger.Sync()
}
