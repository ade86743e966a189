package linecomp

import (
	"fmt"
	"log"
)

// Logger receives progress and summary messages of a run.
type Logger interface {
	Infof(format string, args ...any)
}

// DefaultLogger logs to the Go stdlib logs.
type DefaultLogger struct{}

// Infof implements the Logger.Infof interface.
func (DefaultLogger) Infof(format string, args ...any) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
}

// NoopLogger discards every message. It is the simulator default.
type NoopLogger struct{}

// Infof implements the Logger.Infof interface.
func (NoopLogger) Infof(string, ...any) {}
