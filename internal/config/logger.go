package config

import (
	"go.uber.org/zap"
)

// NewLogger returns the production logger for env "production" and the
// development logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewFileLogger writes JSON logs to path. The terminal client uses it so log
// lines never land on the screen it draws.
func NewFileLogger(env, path string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "json"
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}
