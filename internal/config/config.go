package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"urlcheck/internal/domain"
)

// Profile names select the built-in marker set and column layout.
const (
	ProfileGeneral = "general"
	ProfileKayako  = "kayako"
)

// Config stores all configuration for the application.
type Config struct {
	InputFile  string `mapstructure:"INPUT_FILE"`
	OutputFile string `mapstructure:"OUTPUT_FILE"`
	XLSXFile   string `mapstructure:"XLSX_FILE"`

	RetestInputCSV  string `mapstructure:"RETEST_INPUT_CSV"`
	RetestOutputCSV string `mapstructure:"RETEST_OUTPUT_CSV"`

	Profile          string   `mapstructure:"CHECK_PROFILE"`
	TimeoutSeconds   int      `mapstructure:"TIMEOUT"`
	RetestTimeout    int      `mapstructure:"RETEST_TIMEOUT"`
	MaxWorkers       int      `mapstructure:"MAX_WORKERS"`
	RequestDelayMS   int      `mapstructure:"REQUEST_DELAY_MS"`
	CooldownSeconds  int      `mapstructure:"COOLDOWN_SECONDS"`
	ProgressEvery    int      `mapstructure:"PROGRESS_EVERY"`
	DNSPrecheck      bool     `mapstructure:"DNS_PRECHECK"`
	HeadFirst        bool     `mapstructure:"HEAD_FIRST"`
	IncludeErrorType bool     `mapstructure:"INCLUDE_ERROR_TYPE"`
	ExtraMarkers     []string `mapstructure:"EXTRA_ERROR_MARKERS"`
	UserAgent        string   `mapstructure:"USER_AGENT"`
	MaxBodyBytes     int64    `mapstructure:"MAX_BODY_BYTES"`

	StatusAddr  string `mapstructure:"STATUS_ADDR"`  // empty disables the status server
	PostgresURL string `mapstructure:"POSTGRES_URL"` // empty disables the archive
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables.
	_ = viper.ReadInConfig()

	viper.SetDefault("INPUT_FILE", "urls.txt")
	viper.SetDefault("OUTPUT_FILE", "url_status_results.csv")
	viper.SetDefault("XLSX_FILE", "")
	viper.SetDefault("RETEST_INPUT_CSV", "url_status_results.csv")
	viper.SetDefault("RETEST_OUTPUT_CSV", "url_status_results_updated.csv")
	viper.SetDefault("CHECK_PROFILE", ProfileGeneral)
	viper.SetDefault("TIMEOUT", 15)
	viper.SetDefault("RETEST_TIMEOUT", 30)
	viper.SetDefault("MAX_WORKERS", 20)
	viper.SetDefault("REQUEST_DELAY_MS", 300)
	viper.SetDefault("COOLDOWN_SECONDS", 1)
	viper.SetDefault("PROGRESS_EVERY", 50)
	viper.SetDefault("DNS_PRECHECK", false)
	viper.SetDefault("HEAD_FIRST", false)
	viper.SetDefault("INCLUDE_ERROR_TYPE", true)
	viper.SetDefault("USER_AGENT", "")
	viper.SetDefault("MAX_BODY_BYTES", 2<<20)
	viper.SetDefault("STATUS_ADDR", "")
	viper.SetDefault("POSTGRES_URL", "")

	// The kayako lists were checked with a gentler cadence and a shorter
	// report (no Error Type column).
	if viper.GetString("CHECK_PROFILE") == ProfileKayako {
		viper.SetDefault("TIMEOUT", 20)
		viper.SetDefault("REQUEST_DELAY_MS", 500)
		viper.SetDefault("COOLDOWN_SECONDS", 2)
		viper.SetDefault("PROGRESS_EVERY", 100)
		viper.SetDefault("INCLUDE_ERROR_TYPE", false)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Profile != ProfileGeneral && cfg.Profile != ProfileKayako {
		return nil, fmt.Errorf("unknown CHECK_PROFILE %q", cfg.Profile)
	}
	return &cfg, nil
}

// Timeout is the per-request timeout for a fresh check.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetestTimeoutDuration is the longer timeout used by the retest pass.
func (c *Config) RetestTimeoutDuration() time.Duration {
	return time.Duration(c.RetestTimeout) * time.Second
}

// RequestDelay is the global minimum spacing between request starts.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}

// Cooldown is the coarse pause applied every 100 completions.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// Markers resolves the profile's marker set plus any configured extras,
// which are treated as generic application error pages.
func (c *Config) Markers() []domain.Marker {
	var markers []domain.Marker
	switch c.Profile {
	case ProfileKayako:
		markers = domain.KayakoMarkers()
	default:
		markers = domain.GeneralMarkers()
	}
	for _, phrase := range c.ExtraMarkers {
		if phrase == "" {
			continue
		}
		markers = append(markers, domain.Marker{
			Phrase:    phrase,
			Status:    domain.StatusErrorPage,
			ErrorType: domain.TypeApplication,
		})
	}
	return markers
}
