package seeder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config controls how much synthetic data the seeder generates.
type Config struct {
	ServerURL            string        `mapstructure:"server_url" yaml:"server_url"`
	Offices              int           `mapstructure:"offices" yaml:"offices"`
	LinesPerOffice       int           `mapstructure:"lines_per_office" yaml:"lines_per_office"`
	EnterprisesPerOffice int           `mapstructure:"enterprises_per_office" yaml:"enterprises_per_office"`
	RecordsPerEnterprise int           `mapstructure:"records_per_enterprise" yaml:"records_per_enterprise"`
	TimeSpread           time.Duration `mapstructure:"time_spread" yaml:"time_spread"`
	Seed                 int64         `mapstructure:"seed" yaml:"seed"`
}

// LoadConfig loads configuration with cascade: explicit file > ./seeder.yaml >
// ~/.ddesk/seeder.yaml > defaults.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server_url", "http://localhost:8084")
	v.SetDefault("offices", 3)
	v.SetDefault("lines_per_office", 5)
	v.SetDefault("enterprises_per_office", 4)
	v.SetDefault("records_per_enterprise", 25)
	v.SetDefault("time_spread", 30*24*time.Hour)
	v.SetDefault("seed", 0)

	v.SetConfigName("seeder")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SEEDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ddesk"))
		}
	}

	// A missing config file is fine; defaults apply.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration against usable bounds.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.Offices < 1 {
		return fmt.Errorf("offices must be at least 1, got %d", c.Offices)
	}
	if c.LinesPerOffice < 0 || c.EnterprisesPerOffice < 0 || c.RecordsPerEnterprise < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	if c.TimeSpread < 0 {
		return fmt.Errorf("time_spread must not be negative, got %v", c.TimeSpread)
	}
	return nil
}
