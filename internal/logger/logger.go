package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds the process logger. "prod"/"production" yields JSON output at
// info level, "nop" discards everything, anything else is the development
// console config.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "nop", "silent":
		return zap.NewNop(), nil
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
