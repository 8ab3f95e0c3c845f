package config

import (
	"fmt"
	"time"

	"bess-screening/internal/data"

	"github.com/spf13/viper"
)

// ServerConfig holds process settings for the HTTP server. Every key can be
// overridden from the environment with the BESS_ prefix (BESS_PORT,
// BESS_ALLOWED_ORIGINS=a,b and so on).
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Env            string        `mapstructure:"env"`
	ConfigPath     string        `mapstructure:"config_path"`
	StaticDir      string        `mapstructure:"static_dir"`
	CandidatesDir  string        `mapstructure:"candidates_dir"`
	SitesFile      string        `mapstructure:"sites_file"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	CatalogURL     string        `mapstructure:"catalog_url"`
	CatalogTTL     time.Duration `mapstructure:"catalog_ttl"`
	MaxReports     int           `mapstructure:"max_reports"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
}

// LoadServer reads server settings from defaults and BESS_* environment
// variables.
func LoadServer() (*ServerConfig, error) {
	v := viper.New()
	setServerDefaults(v)
	v.SetEnvPrefix("BESS")
	v.AutomaticEnv()

	var sc ServerConfig
	if err := v.Unmarshal(&sc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal server config: %w", err)
	}
	if sc.Port == "" {
		return nil, fmt.Errorf("port is required")
	}
	if sc.MaxReports < 0 {
		return nil, fmt.Errorf("max_reports must be >= 0")
	}
	return &sc, nil
}

func setServerDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("config_path", "")
	v.SetDefault("static_dir", "./web/dist")
	v.SetDefault("candidates_dir", "examples/candidates")
	v.SetDefault("sites_file", "")
	v.SetDefault("allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("catalog_url", data.DefaultDatapackageURL)
	v.SetDefault("catalog_ttl", "15m")
	v.SetDefault("max_reports", 100)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Production reports whether the server runs with env=production.
func (sc *ServerConfig) Production() bool {
	return sc.Env == "production"
}
