package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAPIBaseURL   = "http://localhost:8080/api"
	defaultLogLevel     = "warn"
	defaultHistoryLimit = 20

	envPrefix = "WALLETCTL"
)

// Config captures client runtime configuration merged from the config file,
// WALLETCTL_* environment variables and command-line flags.
type Config struct {
	APIBaseURL     string
	SessionPath    string
	LogLevel       string
	RequestTimeout time.Duration
	HistoryLimit   int
}

// Load reads configuration through viper. cfgFile overrides the default
// lookup path (~/.walletctl.yaml); an absent default file is not an error.
func Load(cfgFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", defaultAPIBaseURL)
	v.SetDefault("session_path", defaultSessionPath())
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("request_timeout", time.Duration(0))
	v.SetDefault("history_limit", defaultHistoryLimit)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".walletctl")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		APIBaseURL:     strings.TrimRight(v.GetString("api_base_url"), "/"),
		SessionPath:    v.GetString("session_path"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		RequestTimeout: v.GetDuration("request_timeout"),
		HistoryLimit:   v.GetInt("history_limit"),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("api_base_url must not be empty")
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}

	return cfg, nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".walletctl", "session.db")
	}
	return filepath.Join(home, ".walletctl", "session.db")
}
