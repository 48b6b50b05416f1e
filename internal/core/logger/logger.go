package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every entry as the "service" field.
const ServiceName = "sales-manager"

var globalLogger *zap.Logger

// Init initializes the global logger.
// "production" writes JSON with ISO-8601 timestamps; anything else writes
// colored console output. An unknown level falls back to info and is
// reported once the logger is built.
func Init(environment string, level string) error {
	config := newConfig(environment)

	l, levelErr := zapcore.ParseLevel(level)
	if levelErr != nil {
		l = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(l)

	built, err := config.Build(zap.Fields(
		zap.String("service", ServiceName),
		zap.String("environment", environment),
	))
	if err != nil {
		return err
	}

	globalLogger = built
	if levelErr != nil {
		built.Warn("Unknown log level, using info", zap.String("log_level", level))
	}
	return nil
}

func newConfig(environment string) zap.Config {
	if environment == "production" {
		config := zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return config
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.DisableStacktrace = true
	return config
}

// Get returns the global logger instance.
// If not initialized, it returns a no-op logger to prevent panics.
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Named returns a child of the global logger tagged with a component name.
func Named(component string) *zap.Logger {
	return Get().Named(component)
}

// ForRequest returns the global logger carrying the request's ray id.
func ForRequest(rayID string) *zap.Logger {
	return Get().With(zap.String("ray_id", rayID))
}

// Sync flushes any buffered log entries.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}
