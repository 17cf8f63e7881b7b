package logger

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "potosi-be"

// current is swapped atomically: tests install observers while request
// goroutines are still logging.
var current atomic.Pointer[zap.Logger]

// Init configures the shared logger. APP_ENV=production gets unsampled JSON
// on stdout; anything else gets the console encoder at debug. level, when
// set, overrides the environment's default (debug, info, warn, error).
func Init(env, level string) {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
		cfg.OutputPaths = []string{"stdout"}
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	}
	cfg.InitialFields = map[string]any{"service": serviceName}

	var levelErr error
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			levelErr = err
		} else {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}

	l := zap.Must(cfg.Build())
	if levelErr != nil {
		l.Warn("ignoring LOG_LEVEL", zap.String("level", level), zap.Error(levelErr))
	}
	current.Store(l)
}

// L returns the shared logger, building one from the environment if Init
// has not run yet.
func L() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	return current.Load()
}

// Replace installs l and returns a func that puts the old logger back.
func Replace(l *zap.Logger) func() {
	prev := current.Swap(l)
	return func() { current.Store(prev) }
}

func Sync() {
	if l := current.Load(); l != nil {
		_ = l.Sync()
	}
}
