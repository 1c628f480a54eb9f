package utils

import (
	"strings"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide sugared logger. APP_ENV=prod switches to
// the JSON production encoder.
func NewLogger() (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(EnvOrDefault("APP_ENV", "dev")) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zapLogger.Sugar(), nil
}
