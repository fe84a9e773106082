// Package logger provides a zap-based application logger.
package logger

import "go.uber.org/zap"

// Log is the global zap logger used across the project. It defaults to a
// no-op logger so library code and tests can log without initialization.
var Log = zap.NewNop()

// Init configures the global logger in production mode.
func Init() {
	var err error
	Log, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
