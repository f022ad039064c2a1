package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/birdayz/kjoint/kjoint"
	klog "github.com/birdayz/kjoint/pkg/log"
	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/lmittmann/tint"
	"github.com/rs/zerolog"
)

// newLogger builds the process logger and the matching kjoint option. The
// console format logs through zerolog and hands the logr.Logger to kjoint
// directly; the other formats are slog handlers.
func newLogger(w io.Writer, level, format string) (*slog.Logger, kjoint.Option, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "tint":
		log := slog.New(tint.NewHandler(w, &tint.Options{Level: lvl, TimeFormat: time.Kitchen}))
		return log, kjoint.WithLog(log), nil
	case "text":
		log := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
		return log, kjoint.WithLog(log), nil
	case "json":
		log := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
		return log, kjoint.WithLog(log), nil
	case "console":
		zerologr.NameFieldName = "logger"
		zerologr.NameSeparator = "/"
		lr := zerologr.New(klog.New(w, zerologLevel(lvl))).WithName("kjoint")
		return slog.New(logr.ToSlogHandler(lr)), kjoint.WithLogr(lr), nil
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", format)
	}
}

func zerologLevel(lvl slog.Level) zerolog.Level {
	switch {
	case lvl < slog.LevelInfo:
		return zerolog.TraceLevel
	case lvl < slog.LevelWarn:
		return zerolog.InfoLevel
	case lvl < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
