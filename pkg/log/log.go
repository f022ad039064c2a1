package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger writing human-readable lines to w.
func New(w io.Writer, level zerolog.Level) *zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "2006-01-02T15:04:05.999Z07:00"}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &logger
}
