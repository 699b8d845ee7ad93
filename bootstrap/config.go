package bootstrap

import (
	"fmt"
	"os"

	"alertwire/config"
	"alertwire/export"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger builds a zap logger writing to stderr, leaving stdout for records.
// Encoding "json" selects the production encoder; anything else gets colored
// console output.
func InitLogger(level, encoding string) (*zap.Logger, *zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var encoder zapcore.Encoder
	if encoding == "json" {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder // Colored levels
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder        // Readable timestamps
		encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder      // Short file paths
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, logger.Sugar(), nil
}

// InitConfig loads the configuration
func InitConfig(configFile string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LogConfig records where the configuration came from and its effective values
func LogConfig(cfg *config.Config, sugar *zap.SugaredLogger) {
	if viper.ConfigFileUsed() == "" {
		sugar.Debug("No config file found, using defaults and env vars")
	}
	sugar.Debugw("Config loaded",
		"format", cfg.Export.Format,
		"extended_formats", cfg.Export.ExtendedFormats,
		"max_frame_size", cfg.Stream.MaxFrameSize,
		"skip_on_error", cfg.Stream.SkipOnError)
}

// InitRegistry returns the serializer registry selected by cfg
func InitRegistry(cfg *config.Config) *export.Registry {
	reg := export.NewRegistry()
	if cfg.Export.ExtendedFormats {
		export.WithExtendedFormats(reg)
	}
	return reg
}
