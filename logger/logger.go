package logger

import (
	"strings"

	"go.uber.org/zap"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for LOG_MODE: "prod"/"production" gives JSON output,
// anything else the development console encoder.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, sanitizeKVs(keysAndValues)...)
}
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(sanitizeKVs(keysAndValues)...)}
}

// Batch scopes a logger to one outfit batch.
func (l *Logger) Batch(batchKey string, ownerID uint) *Logger {
	return l.With("batch", batchKey, "owner", ownerID)
}

// Component tags every line with the service that wrote it.
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// Field names carrying credentials: weatherapi keys, R2 access keys, the
// sentry DSN and database passwords.
var redactKeys = []string{"password", "secret", "token", "api_key", "apikey", "access_key", "dsn", "authorization"}

// sanitizeKVs blanks out values of credential fields. A trailing key with no
// value is kept as is.
func sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		if key, ok := out[i].(string); ok && isCredential(key) {
			out[i+1] = "[REDACTED]"
		}
	}
	return out
}

func isCredential(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, k := range redactKeys {
		if key != "" && strings.Contains(key, k) {
			return true
		}
	}
	return false
}
