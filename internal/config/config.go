package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration. It is built once at startup
// and passed into every component; nothing reads ambient globals.
type Config struct {
	Line struct {
		Token  string `yaml:"token"`
		UserID string `yaml:"user_id"`
	} `yaml:"line"`
	Sources struct {
		SheetCSVURL string `yaml:"sheet_csv_url"`
		HolidayURL  string `yaml:"holiday_url"`
		MarginURL   string `yaml:"margin_url"`
	} `yaml:"sources"`
	Contract struct {
		Multiplier        float64 `yaml:"multiplier"`         // TWD per index point
		InitialMargin     int     `yaml:"initial_margin"`     // fallback when the bulletin fails
		MaintenanceMargin int     `yaml:"maintenance_margin"` // fallback when the bulletin fails
	} `yaml:"contract"`
	Thresholds struct {
		RolloverWarnDays int     `yaml:"rollover_warn_days"`
		MarginRatioWarn  float64 `yaml:"margin_ratio_warn"`
		CrashTWPct       float64 `yaml:"crash_tw_pct"`
		CrashUSPct       float64 `yaml:"crash_us_pct"`
		VIXWarn          float64 `yaml:"vix_warn"`
	} `yaml:"thresholds"`
	Fallback struct {
		Holidays []string `yaml:"holidays"`
		Position struct {
			Lots       int     `yaml:"lots"`
			EntryPrice float64 `yaml:"entry_price"`
			MarginCash float64 `yaml:"margin_cash"`
		} `yaml:"position"`
	} `yaml:"fallback"`
	Schedule struct {
		DayCron   string `yaml:"day_cron"`
		NightCron string `yaml:"night_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Timezone     string `yaml:"timezone"`
	ForceSession string `yaml:"force_session"`
	Proxy        string `yaml:"proxy"`
}

// fallbackHolidays is the built-in TWSE holiday list used when both the API
// and the yaml config come up empty.
var fallbackHolidays = []string{
	// 2025
	"2025-01-01", "2025-01-27", "2025-01-28", "2025-01-29",
	"2025-01-30", "2025-01-31", "2025-02-28", "2025-04-03",
	"2025-04-04", "2025-05-01", "2025-05-30", "2025-10-10",
	// 2026
	"2026-01-01",
	"2026-02-12", "2026-02-13", "2026-02-16", "2026-02-17",
	"2026-04-03", "2026-04-06", "2026-05-01", "2026-06-19",
	"2026-09-25", "2026-10-09", "2026-10-10",
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("LINE_TOKEN"); v != "" {
		cfg.Line.Token = v
	}
	if v := os.Getenv("LINE_USER_ID"); v != "" {
		cfg.Line.UserID = v
	}
	if v := os.Getenv("SHEET_CSV_URL"); v != "" {
		cfg.Sources.SheetCSVURL = v
	}
	if v := os.Getenv("FORCE_SESSION"); v != "" {
		cfg.ForceSession = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Contract.Multiplier == 0 {
		cfg.Contract.Multiplier = 10 // MXF: 10 TWD per point
	}
	if cfg.Contract.InitialMargin == 0 {
		cfg.Contract.InitialMargin = 17000
	}
	if cfg.Contract.MaintenanceMargin == 0 {
		cfg.Contract.MaintenanceMargin = 13000
	}
	if cfg.Thresholds.RolloverWarnDays == 0 {
		cfg.Thresholds.RolloverWarnDays = 3
	}
	if cfg.Thresholds.MarginRatioWarn == 0 {
		cfg.Thresholds.MarginRatioWarn = 120
	}
	if cfg.Thresholds.CrashTWPct == 0 {
		cfg.Thresholds.CrashTWPct = -2.5
	}
	if cfg.Thresholds.CrashUSPct == 0 {
		cfg.Thresholds.CrashUSPct = -1.5
	}
	if cfg.Thresholds.VIXWarn == 0 {
		cfg.Thresholds.VIXWarn = 25
	}
	if len(cfg.Fallback.Holidays) == 0 {
		cfg.Fallback.Holidays = fallbackHolidays
	}
	if cfg.Fallback.Position.Lots == 0 {
		cfg.Fallback.Position.Lots = 1
	}
	if cfg.Fallback.Position.EntryPrice == 0 {
		cfg.Fallback.Position.EntryPrice = 22000
	}
	if cfg.Fallback.Position.MarginCash == 0 {
		cfg.Fallback.Position.MarginCash = 25000
	}
	if cfg.Schedule.DayCron == "" {
		cfg.Schedule.DayCron = "0 0 9,11,13 * * 1-5"
	}
	if cfg.Schedule.NightCron == "" {
		cfg.Schedule.NightCron = "0 30 16,22 * * *"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Taipei"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Line.Token == "" {
		return fmt.Errorf("line.token is required")
	}
	if c.Line.UserID == "" {
		return fmt.Errorf("line.user_id is required")
	}
	if c.Contract.Multiplier <= 0 {
		return fmt.Errorf("contract.multiplier must be positive")
	}
	if c.Thresholds.CrashTWPct >= 0 || c.Thresholds.CrashUSPct >= 0 {
		return fmt.Errorf("crash thresholds must be negative")
	}
	return nil
}
