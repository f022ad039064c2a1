package kjoint

import (
	"log/slog"

	"github.com/go-logr/logr"
)

// Option is a function that configures a Joint
type Option func(*Joint)

// WithLog sets the logger. A nil logger keeps the current one.
var WithLog = func(log *slog.Logger) Option {
	return func(j *Joint) {
		if log != nil {
			j.log = log
		}
	}
}

// WithLogr sets the logger from a logr.Logger, e.g. one backed by zerolog.
// A logger without a sink keeps the current one.
var WithLogr = func(log logr.Logger) Option {
	return func(j *Joint) {
		if log.GetSink() != nil {
			j.log = slog.New(logr.ToSlogHandler(log))
		}
	}
}

// WithWorkersCount sets how many positions LogProbParts scores concurrently.
// Values below 1 mean one worker.
var WithWorkersCount = func(n int) Option {
	return func(j *Joint) {
		j.workers = max(n, 1)
	}
}

// NullWriter is a writer that discards all data
type NullWriter struct{}

func (NullWriter) Write(p []byte) (int, error) { return len(p), nil }

// NullLogger creates a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(NullWriter{}, nil))
}
