package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	PhotoExt       []string      `mapstructure:"photo_extensions"`
	VideoExt       []string      `mapstructure:"video_extensions"`
	PhoneExt       []string      `mapstructure:"phone_extensions"`
	LogFile        string        `mapstructure:"log_file"`
	GeocodeURL     string        `mapstructure:"geocode_url"`
	GeocodeAgent   string        `mapstructure:"geocode_user_agent"`
	GeocodeDelay   time.Duration `mapstructure:"geocode_delay"`
	GeocodeTimeout time.Duration `mapstructure:"geocode_timeout"`
}

func LoadConfig() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find user config dir: %w", err)
	}

	viper.SetConfigName("mediasort")
	viper.SetConfigType("toml")
	viper.AddConfigPath(filepath.Join(configDir, "mediasort"))

	// Set defaults:
	viper.SetDefault("photo_extensions", []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".gif"})
	viper.SetDefault("video_extensions", []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm", ".m4v", ".3gp"})
	viper.SetDefault("phone_extensions", []string{".heic", ".heif"})
	viper.SetDefault("log_file", "mediasort.log")
	viper.SetDefault("geocode_url", "https://nominatim.openstreetmap.org")
	viper.SetDefault("geocode_user_agent", "mediasort")
	viper.SetDefault("geocode_delay", time.Second)
	viper.SetDefault("geocode_timeout", 10*time.Second)

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; that's OK, just use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a Config with the built-in defaults without touching
// the global viper state. Tests use this to stay isolated.
func DefaultConfig() *Config {
	return &Config{
		PhotoExt:       []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".gif"},
		VideoExt:       []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm", ".m4v", ".3gp"},
		PhoneExt:       []string{".heic", ".heif"},
		LogFile:        "mediasort.log",
		GeocodeURL:     "https://nominatim.openstreetmap.org",
		GeocodeAgent:   "mediasort",
		GeocodeDelay:   time.Second,
		GeocodeTimeout: 10 * time.Second,
	}
}
