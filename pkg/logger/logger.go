// Package logger constructs the structured loggers used throughout ignite.
// Every subsystem takes a *zap.SugaredLogger rather than talking to zap
// directly, so this is the single place that decides encoding, level, and
// output sink for the whole process.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-configured *zap.SugaredLogger tagged with the
// given service name. Every log line carries a "service" field so that
// output from multiple ignite instances in the same process (or the same
// aggregated log stream) can be told apart.
//
// Falls back to zap's no-op logger if construction fails; logging should
// never be the reason a database fails to start.
func New(service string) *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		log = zap.NewNop()
	}

	return log.Sugar().With("service", service)
}
