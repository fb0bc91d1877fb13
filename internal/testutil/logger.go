package testutil

import (
	"io"

	"github.com/dtroode/gatekeeper/internal/logger"
)

// MakeNoopLogger returns a logger that discards every record.
func MakeNoopLogger() *logger.Logger {
	return logger.New(0, logger.WithOutput(io.Discard))
}
