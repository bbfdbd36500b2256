package logging

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the structured logger shared across the service.
var Log *zap.Logger

// SLog is the sugared variant for printf-style call sites.
var SLog *zap.SugaredLogger

// Init configures the global loggers. Production config by default,
// development config when APP_ENV=development.
func Init() {
	var logger *zap.Logger
	var err error

	if os.Getenv("APP_ENV") == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err = cfg.Build()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	Log = logger
	SLog = logger.Sugar()
}

// Sync flushes buffered log entries. Call before exit.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}

func init() {
	// Tests and tools may use the package without calling Init.
	if Log == nil {
		Log = zap.NewNop()
		SLog = Log.Sugar()
	}
}
