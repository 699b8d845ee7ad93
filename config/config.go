package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. ALERTWIRE_EXPORT_FORMAT
	EnvPrefix = "ALERTWIRE"
	// MaxFrameSizeLimit is the largest frame size a config may request (256MB)
	MaxFrameSizeLimit = 256 * 1024 * 1024
)

// Config holds all configuration for the alertwire tools
type Config struct {
	Log struct {
		// Level is one of debug, info, warn, error
		Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
		// Encoding is console (human readable) or json
		Encoding string `mapstructure:"encoding" validate:"oneof=console json"`
	} `mapstructure:"log"`

	Export struct {
		// Format is the default export format for convert
		Format string `mapstructure:"format" validate:"required"`
		// ExtendedFormats registers yaml and msgpack alongside json
		ExtendedFormats bool `mapstructure:"extended_formats"`
	} `mapstructure:"export"`

	Stream struct {
		MaxFrameSize int  `mapstructure:"max_frame_size" validate:"gt=0"`
		SkipOnError  bool `mapstructure:"skip_on_error"`
	} `mapstructure:"stream"`
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.encoding", "console")
	viper.SetDefault("export.format", "json")
	viper.SetDefault("export.extended_formats", true)
	viper.SetDefault("stream.max_frame_size", 4*1024*1024) // 4MB
	viper.SetDefault("stream.skip_on_error", false)
}

// loadFromEnv sets up environment variable loading
func loadFromEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// LoadConfig loads configuration from configFile, or from alertwire.yaml in the
// working directory or ./config when configFile is empty. A missing default
// file is not an error; a missing explicit file is.
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("alertwire")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()
	loadFromEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.normalize()
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Encoding = strings.ToLower(strings.TrimSpace(c.Log.Encoding))
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
}

func validateConfig(config *Config) error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return err
	}
	if config.Stream.MaxFrameSize > MaxFrameSizeLimit {
		return fmt.Errorf("stream.max_frame_size %d exceeds limit of %d bytes", config.Stream.MaxFrameSize, MaxFrameSizeLimit)
	}
	return nil
}
