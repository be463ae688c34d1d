package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Placeholder values shipped in the .env template. Treated the same as an
// unset credential during pre-flight validation.
const (
	placeholderAPIKey = "YOUR_API_KEY_HERE"
	placeholderSiteID = "YOUR_SITE_ID_HERE"
)

type Config struct {
	APIKey       string `mapstructure:"wix_api_key"`
	SiteID       string `mapstructure:"wix_site_id"`
	BaseURL      string `mapstructure:"wix_api_base_url"`
	ExportDir    string `mapstructure:"export_dir"`
	BookingLimit int    `mapstructure:"booking_limit"`
}

// New loads configuration from a .env file (when present) and the process
// environment. Missing credentials are a Validate concern, not a load error.
func New() (*Config, error) {
	// Best-effort, mirrors dotenv semantics: a missing .env file is fine,
	// real environment variables always win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"wix_api_key", "wix_site_id", "wix_api_base_url", "export_dir", "booking_limit"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", key, err)
		}
	}

	v.SetDefault("wix_api_base_url", "https://www.wixapis.com")
	v.SetDefault("export_dir", "./csv_exports")
	v.SetDefault("booking_limit", 10)

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate is the run-level pre-flight check: absent or template-placeholder
// credentials are fatal before any pipeline runs.
func (c *Config) Validate() error {
	if c.APIKey == "" || c.APIKey == placeholderAPIKey {
		return errors.New("WIX_API_KEY is not set or has default value; " +
			"create a .env file with WIX_API_KEY=your_actual_api_key and WIX_SITE_ID=your_site_id")
	}
	if c.SiteID == "" || c.SiteID == placeholderSiteID {
		return errors.New("WIX_SITE_ID is not set or has default value; " +
			"update your .env file with WIX_SITE_ID=your_site_id")
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(New),
)
