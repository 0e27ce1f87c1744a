package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	AppName   = "ema-translate"
	EnvPrefix = "EMA"

	DriverMiniaudio = "miniaudio"
	DriverPortaudio = "portaudio"
	DriverNone      = "none"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file, environment variables
// prefixed with EMA_ and command line flags.
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Session SessionConfig `mapstructure:"session"`
	Speech  SpeechConfig  `mapstructure:"speech"`
}

type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout bounds each request; zero disables it.
	Timeout time.Duration `mapstructure:"timeout"`
}

type AudioConfig struct {
	Driver     string `mapstructure:"driver"`      // "miniaudio", "portaudio", "none"
	SampleRate int    `mapstructure:"sample_rate"` // Capture sample rate in Hz
	BufferSize int    `mapstructure:"buffer_size"` // Frames per read, portaudio only
}

// SessionConfig holds the defaults for a new conversation.
type SessionConfig struct {
	Objective      string `mapstructure:"objective"`
	UserLanguage   string `mapstructure:"user_language"`
	TargetLanguage string `mapstructure:"target_language"`
	Country        string `mapstructure:"country"`
}

type SpeechConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// New returns a viper instance with every default and the environment
// binding set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", time.Duration(0))

	v.SetDefault("audio.driver", DriverMiniaudio)
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.buffer_size", 512)

	v.SetDefault("session.objective", "")
	v.SetDefault("session.user_language", "en")
	v.SetDefault("session.target_language", "en")
	v.SetDefault("session.country", "US")

	v.SetDefault("speech.enabled", true)

	v.SetEnvPrefix(EnvPrefix)
	// backend.base_url becomes EMA_BACKEND_BASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file, if any, into v and decodes the result. An
// explicit configPath must exist; otherwise the default locations are
// searched and a missing file is not an error.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if configDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(configDir, AppName))
		}
		v.AddConfigPath(filepath.Join("/etc", AppName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type check on its own.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Backend.BaseURL) == "" {
		errs = append(errs, errors.New("backend.base_url must not be empty"))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, errors.New("backend.timeout must not be negative"))
	}

	switch c.Audio.Driver {
	case DriverMiniaudio, DriverPortaudio, DriverNone:
	default:
		errs = append(errs, fmt.Errorf("audio.driver %q is not one of %s, %s, %s",
			c.Audio.Driver, DriverMiniaudio, DriverPortaudio, DriverNone))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, errors.New("audio.sample_rate must be positive"))
	}
	if c.Audio.Driver == DriverPortaudio && c.Audio.BufferSize <= 0 {
		errs = append(errs, errors.New("audio.buffer_size must be positive"))
	}

	for key, value := range map[string]string{
		"session.user_language":   c.Session.UserLanguage,
		"session.target_language": c.Session.TargetLanguage,
	} {
		if _, err := language.Parse(value); err != nil {
			errs = append(errs, fmt.Errorf("%s %q is not a valid language code: %w", key, value, err))
		}
	}
	if c.Session.Country != "" {
		if _, err := language.ParseRegion(c.Session.Country); err != nil {
			errs = append(errs, fmt.Errorf("session.country %q is not a valid region code: %w", c.Session.Country, err))
		}
	}

	return errors.Join(errs...)
}
