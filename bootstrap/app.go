package bootstrap

import (
	"fmt"

	"alertwire/config"
	"alertwire/export"

	"go.uber.org/zap"
)

// App holds the components shared by every alertwire command
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Sugar    *zap.SugaredLogger
	Registry *export.Registry
}

// NewApp loads configuration, then builds the logger and serializer registry
// it describes
func NewApp(configFile string) (*App, error) {
	cfg, err := InitConfig(configFile)
	if err != nil {
		return nil, err
	}

	logger, sugar, err := InitLogger(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	LogConfig(cfg, sugar)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Sugar:    sugar,
		Registry: InitRegistry(cfg),
	}, nil
}

// Shutdown flushes buffered log entries
func (a *App) Shutdown() {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
