package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// dayMap maps lowercase day abbreviations to time.Weekday
var dayMap = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ScheduleConfig restricts prompting to a weekly time window.
type ScheduleConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	DaysRaw   []string       `mapstructure:"days"`
	StartTime string         `mapstructure:"start_time"`
	EndTime   string         `mapstructure:"end_time"`
	Timezone  string         `mapstructure:"timezone"`
	Days      []time.Weekday `mapstructure:"-"`
	Location  *time.Location `mapstructure:"-"`
}

// Config holds the application configuration.
type Config struct {
	PackageID string `mapstructure:"package_id"` // Store listing id of the host application
	// Display criteria
	MinimumLaunchCount int  `mapstructure:"minimum_launch_count"`
	MinimumDaysAfter   int  `mapstructure:"minimum_days_after"`
	UseOrCombinator    bool `mapstructure:"use_or_combinator"` // OR between the launch and day thresholds
	// Dialog
	Cancelable       bool   `mapstructure:"cancelable"`
	Style            string `mapstructure:"style"`
	Title            string `mapstructure:"title"` // Empty hides the title
	Message          string `mapstructure:"message"`
	RateNowLabel     string `mapstructure:"rate_now_label"`
	RemindLaterLabel string `mapstructure:"remind_later_label"` // Empty hides the button
	NeverRemindLabel string `mapstructure:"never_remind_label"` // Empty hides the button
	// Extra display condition
	Schedule ScheduleConfig `mapstructure:"schedule"`
	// Storage
	StoreType      string `mapstructure:"store_type"` // "memory", "file", "sqlite" or "sql"
	StoreDir       string `mapstructure:"store_dir"`
	StoreDSN       string `mapstructure:"store_dsn"` // Used by "sqlite" (file path) and "sql" (postgres DSN)
	StoreNamespace string `mapstructure:"store_namespace"`
	// Navigation
	DryRun      bool     `mapstructure:"dry_run"`      // Log store URLs instead of opening them
	OpenSchemes []string `mapstructure:"open_schemes"` // URI schemes the default browser may be handed
	// Logging Configuration
	LogLevel  string `mapstructure:"log_level"`  // Logging level (e.g., "DEBUG", "INFO", "WARN", "ERROR")
	LogFormat string `mapstructure:"log_format"` // Logging format ("text" or "json")
}

// timeFormat defines the expected format for start/end times
const timeFormat = "15:04"

// LoadConfig loads configuration from file, environment variables, and defaults using Viper.
// The dry-run flag, when set, takes precedence over every other source.
func LoadConfig(configPath string, dryRunFlag bool) (*Config, error) {
	v := viper.New()

	v.SetDefault("package_id", "")
	v.SetDefault("minimum_launch_count", 5)
	v.SetDefault("minimum_days_after", 7)
	v.SetDefault("use_or_combinator", false)
	v.SetDefault("cancelable", true)
	v.SetDefault("style", "")
	v.SetDefault("title", "Rate this app")
	v.SetDefault("message", "If you enjoy using this app, would you mind taking a moment to rate it?")
	v.SetDefault("rate_now_label", "Rate now")
	v.SetDefault("remind_later_label", "Remind me later")
	v.SetDefault("never_remind_label", "No, thanks")
	// Defaults for the schedule window
	v.SetDefault("schedule.enabled", false)
	v.SetDefault("schedule.days", []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"})
	v.SetDefault("schedule.start_time", "09:00")
	v.SetDefault("schedule.end_time", "21:00")
	v.SetDefault("schedule.timezone", "Local")
	// Defaults for storage and navigation
	v.SetDefault("store_type", "file")
	v.SetDefault("store_dir", ".")
	v.SetDefault("store_dsn", "")
	v.SetDefault("store_namespace", "rating_prompt")
	v.SetDefault("dry_run", false)
	v.SetDefault("open_schemes", []string{"http", "https"})
	v.SetDefault("log_level", "INFO")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix("RATING_PROMPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Use the passed-in configPath
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("rating-prompt")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/rating-prompt/")
		v.AddConfigPath("$HOME/.rating-prompt")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Info: No config file found, using defaults and environment variables.")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Apply the dry-run flag override after unmarshalling so it wins over file/env/defaults
	if dryRunFlag {
		cfg.DryRun = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks field ranges and resolves the derived schedule fields.
func (cfg *Config) validate() error {
	// Display criteria and dialog texts
	if strings.TrimSpace(cfg.PackageID) == "" {
		return errors.New("package_id must be set")
	}
	if cfg.MinimumLaunchCount < 0 {
		return errors.New("minimum_launch_count cannot be negative")
	}
	if cfg.MinimumDaysAfter < 0 {
		return errors.New("minimum_days_after cannot be negative")
	}
	if strings.TrimSpace(cfg.Message) == "" {
		return errors.New("message must be set")
	}
	if strings.TrimSpace(cfg.RateNowLabel) == "" {
		return errors.New("rate_now_label must be set")
	}

	// Storage
	switch cfg.StoreType {
	case "memory", "file":
	case "sqlite":
		if cfg.StoreDSN == "" {
			return errors.New("store_dsn must be set when store_type is 'sqlite'")
		}
	case "sql":
		if cfg.StoreDSN == "" {
			return errors.New("store_dsn must be set when store_type is 'sql'")
		}
	default:
		return fmt.Errorf("invalid store_type %q: must be 'memory', 'file', 'sqlite' or 'sql'", cfg.StoreType)
	}
	if strings.TrimSpace(cfg.StoreNamespace) == "" {
		return errors.New("store_namespace cannot be empty")
	}
	if !cfg.DryRun && len(cfg.OpenSchemes) == 0 {
		return errors.New("open_schemes cannot be empty unless dry_run is enabled")
	}

	if cfg.Schedule.Enabled {
		if err := cfg.Schedule.resolve(); err != nil {
			return err
		}
	}

	// Validate Log Level
	validLevels := map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
	if _, ok := validLevels[strings.ToUpper(cfg.LogLevel)]; !ok {
		return fmt.Errorf("invalid log_level %q: must be one of DEBUG, INFO, WARN, ERROR", cfg.LogLevel)
	}
	// Validate Log Format
	validFormats := map[string]bool{"text": true, "json": true}
	if _, ok := validFormats[strings.ToLower(cfg.LogFormat)]; !ok {
		return fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	return nil
}

// resolve parses the timezone, days and times of the schedule window.
func (s *ScheduleConfig) resolve() error {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("invalid schedule.timezone %q: %w", s.Timezone, err)
	}
	s.Location = loc

	// Parse Days
	if len(s.DaysRaw) == 0 {
		return errors.New("config key 'schedule.days' cannot be empty")
	}
	parsedDays := []time.Weekday{}
	seenDays := make(map[time.Weekday]bool)
	for _, dayStr := range s.DaysRaw {
		dayLower := strings.ToLower(strings.TrimSpace(dayStr))
		day, ok := dayMap[dayLower]
		if !ok {
			return fmt.Errorf("invalid day specified in 'schedule.days': %q", dayStr)
		}
		if !seenDays[day] {
			parsedDays = append(parsedDays, day)
			seenDays[day] = true
		}
	}
	s.Days = parsedDays

	// Validate Times
	if _, err := time.ParseInLocation(timeFormat, s.StartTime, s.Location); err != nil {
		return fmt.Errorf("invalid 'schedule.start_time' format %q (expect HH:MM): %w", s.StartTime, err)
	}
	if _, err := time.ParseInLocation(timeFormat, s.EndTime, s.Location); err != nil {
		return fmt.Errorf("invalid 'schedule.end_time' format %q (expect HH:MM): %w", s.EndTime, err)
	}
	// HH:MM strings compare in clock order
	if s.EndTime <= s.StartTime {
		return fmt.Errorf("'schedule.end_time' (%s) must be after 'schedule.start_time' (%s)", s.EndTime, s.StartTime)
	}
	return nil
}
