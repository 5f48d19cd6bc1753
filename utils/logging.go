package utils

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	logMu  sync.RWMutex
	base   = zap.NewNop()
	tagged = map[string]*zap.SugaredLogger{}
)

// InitLogger replaces the package logger. mode "production"/"prod" selects
// JSON output, anything else the development console encoder.
func InitLogger(mode string) error {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	logMu.Lock()
	base = l
	tagged = map[string]*zap.SugaredLogger{}
	logMu.Unlock()
	return nil
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	logMu.RLock()
	defer logMu.RUnlock()
	_ = base.Sync()
}

func logger(tag string) *zap.SugaredLogger {
	logMu.RLock()
	l, ok := tagged[tag]
	logMu.RUnlock()
	if ok {
		return l
	}

	logMu.Lock()
	defer logMu.Unlock()
	if l, ok = tagged[tag]; ok {
		return l
	}
	l = base.Named(tag).Sugar()
	tagged[tag] = l
	return l
}

func LogInfo(msg string, args ...interface{}) {
	logger("app").Infof(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	logger("app").Errorf(msg, args...)
}

func LogDebug(msg string, args ...interface{}) {
	logger("app").Debugf(msg, args...)
}

func LogDB(msg string, args ...interface{}) {
	logger("db").Infof(msg, args...)
}

func LogHTTP(msg string, args ...interface{}) {
	logger("http").Infof(msg, args...)
}

func LogJob(msg string, args ...interface{}) {
	logger("job").Infof(msg, args...)
}

func LogSeed(msg string, args ...interface{}) {
	logger("seed").Infof(msg, args...)
}

func LogStartup(msg string, args ...interface{}) {
	logger("startup").Infof(msg, args...)
}

func LogShutdown(msg string, args ...interface{}) {
	logger("shutdown").Infof(msg, args...)
}

// LogRequest writes one structured access log line.
func LogRequest(requestID, method, path string, status int, durationMs float64) {
	logger("http").Infow("request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", durationMs,
	)
}
