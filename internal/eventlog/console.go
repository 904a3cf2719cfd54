package eventlog

import (
	"github.com/rs/zerolog"
)

// ConsoleTag marks event lines in diagnostic output
const ConsoleTag = "brightness-event"

// ConsoleSink is the transient sink: each line goes to a zerolog logger and
// nothing is kept. Clear is a no-op.
type ConsoleSink struct {
	logger zerolog.Logger
}

// NewConsoleSink writes event lines through logger
func NewConsoleSink(logger zerolog.Logger) *ConsoleSink {
	return &ConsoleSink{
		logger: logger.With().Str("tag", ConsoleTag).Logger(),
	}
}

// WriteLine logs the line at info level
func (c *ConsoleSink) WriteLine(line string) error {
	c.logger.Info().Msg(line)
	return nil
}

// Clear has nothing to drop
func (c *ConsoleSink) Clear() error {
	return nil
}
