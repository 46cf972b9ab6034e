package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/teemow/timewise/internal/availability"
	"github.com/teemow/timewise/internal/ics"
)

// EnvPrefix prefixes every environment override, e.g. TIMEWISE_TIMEZONE.
const EnvPrefix = "TIMEWISE"

// Calendar backends.
const (
	SourceGoogle = "google"
	SourceICS    = "ics"
)

// Config is the resolved timewise configuration.
type Config struct {
	Timezone        string            `mapstructure:"timezone"`
	WorkingHours    HourRange         `mapstructure:"working_hours"`
	IncludeWeekends bool              `mapstructure:"include_weekends"`
	Preferences     PreferencesConfig `mapstructure:"preferences"`
	Engine          EngineConfig      `mapstructure:"engine"`
	Calendar        CalendarConfig    `mapstructure:"calendar"`
	Google          GoogleConfig      `mapstructure:"google"`
	ICS             ICSConfig         `mapstructure:"ics"`
	Logging         LoggingConfig     `mapstructure:"logging"`
}

// HourRange is a daily window of whole hours.
type HourRange struct {
	Start int `mapstructure:"start"`
	End   int `mapstructure:"end"`
}

// PreferencesConfig holds the default scoring preferences.
type PreferencesConfig struct {
	AvoidLunchTime bool      `mapstructure:"avoid_lunch_time"`
	BufferMinutes  int       `mapstructure:"buffer_minutes"`
	PreferMornings bool      `mapstructure:"prefer_mornings"`
	PreferredHours HourRange `mapstructure:"preferred_hours"`
}

// EngineConfig tunes the availability engine.
type EngineConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// CalendarConfig selects the calendar backend.
type CalendarConfig struct {
	Source   string `mapstructure:"source"`
	ID       string `mapstructure:"id"`
	Account  string `mapstructure:"account"`
	TokenDir string `mapstructure:"token_dir"`

	// AllDayBusy makes all-day events block their whole days.
	AllDayBusy bool `mapstructure:"all_day_busy"`
}

// GoogleConfig holds the OAuth client used for Google Calendar.
type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

// ICSConfig lists the ICS feeds read when calendar.source is "ics".
type ICSConfig struct {
	Sources  []ics.Source `mapstructure:"sources"`
	CacheDir string       `mapstructure:"cache_dir"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key with its default. Keys need a default to
// be picked up from the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "")
	v.SetDefault("working_hours.start", availability.DefaultWorkingHours.Start)
	v.SetDefault("working_hours.end", availability.DefaultWorkingHours.End)
	v.SetDefault("include_weekends", false)
	v.SetDefault("preferences.avoid_lunch_time", true)
	v.SetDefault("preferences.buffer_minutes", 15)
	v.SetDefault("preferences.prefer_mornings", false)
	v.SetDefault("preferences.preferred_hours.start", 0)
	v.SetDefault("preferences.preferred_hours.end", 0)
	v.SetDefault("engine.concurrency", availability.DefaultConcurrency)
	v.SetDefault("calendar.source", SourceGoogle)
	v.SetDefault("calendar.id", "primary")
	v.SetDefault("calendar.account", "default")
	v.SetDefault("calendar.token_dir", "")
	v.SetDefault("calendar.all_day_busy", false)
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("ics.cache_dir", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// NewViper returns a viper instance with defaults and TIMEWISE_ environment
// overrides. GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are accepted as well.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("google.client_id", EnvPrefix+"_GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID")
	_ = v.BindEnv("google.client_secret", EnvPrefix+"_GOOGLE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET")
	return v
}

// DefaultSearchPaths are the directories searched for timewise.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"."}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append([]string{filepath.Join(dir, "timewise")}, paths...)
	}
	return paths
}

// Load reads configFile, or timewise.yaml from searchPaths when configFile is
// empty, and returns the validated configuration. A missing timewise.yaml is
// not an error; a missing explicit configFile is.
func Load(v *viper.Viper, configFile string, searchPaths ...string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("timewise")
		v.SetConfigType("yaml")
		if len(searchPaths) == 0 {
			searchPaths = DefaultSearchPaths()
		}
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be fixed by defaults.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if err := validateHours("working_hours", c.WorkingHours); err != nil {
		return err
	}
	if c.Preferences.PreferredHours != (HourRange{}) {
		if err := validateHours("preferences.preferred_hours", c.Preferences.PreferredHours); err != nil {
			return err
		}
	}
	if c.Preferences.BufferMinutes < 0 {
		return fmt.Errorf("preferences.buffer_minutes must not be negative")
	}
	if c.Engine.Concurrency < 0 {
		return fmt.Errorf("engine.concurrency must not be negative")
	}

	switch c.Calendar.Source {
	case SourceGoogle:
	case SourceICS:
		if len(c.ICS.Sources) == 0 {
			return fmt.Errorf("calendar.source is %q but ics.sources is empty", SourceICS)
		}
		for _, src := range c.ICS.Sources {
			if err := src.Validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown calendar.source %q (want %q or %q)", c.Calendar.Source, SourceGoogle, SourceICS)
	}
	return nil
}

func validateHours(key string, h HourRange) error {
	if h.Start < 0 || h.End > 24 || h.Start >= h.End {
		return fmt.Errorf("%s must satisfy 0 <= start < end <= 24, got %d-%d", key, h.Start, h.End)
	}
	return nil
}

// Location resolves the configured time zone. Empty or "Local" means the
// system zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlotWorkingHours returns the working hours for slot search.
func (c *Config) SlotWorkingHours() availability.HourRange {
	return availability.HourRange{Start: c.WorkingHours.Start, End: c.WorkingHours.End}
}

// DefaultPreferences converts the preferences section for the scorer.
func (c *Config) DefaultPreferences() availability.Preferences {
	prefs := availability.Preferences{
		AvoidLunchTime:        c.Preferences.AvoidLunchTime,
		PreferMornings:        c.Preferences.PreferMornings,
		BufferBetweenMeetings: time.Duration(c.Preferences.BufferMinutes) * time.Minute,
	}
	if h := c.Preferences.PreferredHours; h != (HourRange{}) {
		prefs.PreferredHours = &availability.HourRange{Start: h.Start, End: h.End}
	}
	return prefs
}
