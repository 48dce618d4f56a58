package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOECDBaseURL = "https://stats.oecd.org/sdmx-json/data/DP_LIVE/"
	DefaultECBBaseURL  = "https://sdw-wsrest.ecb.europa.eu/service/"
)

// Config holds all application configuration.
type Config struct {
	Environment string `yaml:"environment" validate:"oneof=development production"`
	Server      struct {
		Addr         string        `yaml:"addr" validate:"required"`
		ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gt=0"`
		WriteTimeout time.Duration `yaml:"write_timeout" validate:"gt=0"`
	} `yaml:"server"`
	Sources struct {
		OECDBaseURL string        `yaml:"oecd_base_url" validate:"required,url"`
		ECBBaseURL  string        `yaml:"ecb_base_url" validate:"required,url"`
		Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
		Retries     int           `yaml:"retries" validate:"gte=0,lte=5"`
	} `yaml:"sources"`
	Cache struct {
		TTL        time.Duration `yaml:"ttl" validate:"gte=0"`
		SQLitePath string        `yaml:"sqlite_path"`
		PurgeCron  string        `yaml:"purge_cron" validate:"required"`
	} `yaml:"cache"`
	Dashboard struct {
		ConfidenceSince string `yaml:"confidence_since" validate:"datetime=2006-01-02"`
		StressSince     string `yaml:"stress_since" validate:"datetime=2006-01-02"`
		StatsSince      string `yaml:"stats_since" validate:"datetime=2006-01-02"`
	} `yaml:"dashboard"`
	Proxy string `yaml:"proxy" validate:"omitempty,url"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ECONDASH_ENV"); v != "" {
		cfg.Environment = v
	}
	if v := os.Getenv("ECONDASH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ECONDASH_OECD_URL"); v != "" {
		cfg.Sources.OECDBaseURL = v
	}
	if v := os.Getenv("ECONDASH_ECB_URL"); v != "" {
		cfg.Sources.ECBBaseURL = v
	}
	if v := os.Getenv("ECONDASH_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse ECONDASH_CACHE_TTL: %w", err)
		}
		cfg.Cache.TTL = ttl
	}
	if v := os.Getenv("ECONDASH_SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 5 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		// remote fetches happen inside the request
		cfg.Server.WriteTimeout = 2 * time.Minute
	}
	if cfg.Sources.OECDBaseURL == "" {
		cfg.Sources.OECDBaseURL = DefaultOECDBaseURL
	}
	if cfg.Sources.ECBBaseURL == "" {
		cfg.Sources.ECBBaseURL = DefaultECBBaseURL
	}
	if cfg.Sources.Timeout == 0 {
		cfg.Sources.Timeout = 30 * time.Second
	}
	if cfg.Sources.Retries == 0 {
		cfg.Sources.Retries = 2
	}
	if cfg.Cache.PurgeCron == "" {
		cfg.Cache.PurgeCron = "0 */10 * * * *"
	}
	if cfg.Dashboard.ConfidenceSince == "" {
		cfg.Dashboard.ConfidenceSince = "2019-01-01"
	}
	if cfg.Dashboard.StressSince == "" {
		cfg.Dashboard.StressSince = "2000-01-01"
	}
	if cfg.Dashboard.StatsSince == "" {
		cfg.Dashboard.StatsSince = "2005-01-01"
	}
}

var validate = validator.New()

// Validate checks field constraints declared in struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// IsProduction reports whether the production environment is selected.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Date parses one of the dashboard date settings as UTC midnight, the same
// location upstream period labels are parsed in.
func Date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return d
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "datetime":
		return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", field)
	case "gt", "gte", "lte":
		return fmt.Sprintf("%s is out of range (%s %s)", field, e.Tag(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
