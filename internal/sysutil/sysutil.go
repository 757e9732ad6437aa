// Package sysutil holds the process bootstrap helpers of the gateway binary:
// global log level, the root logger and tolerant environment flag parsing.
package sysutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetLogLevel sets the global zerolog level and returns it.
// Accepted (case-insensitive): debug, info, warn|warning, error, fatal, panic.
// Anything else selects info.
func SetLogLevel(lvl string) zerolog.Level {
	level := zerolog.InfoLevel
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "fatal":
		level = zerolog.FatalLevel
	case "panic":
		level = zerolog.PanicLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}

// InitLogger builds the root logger, tagged with the service and instance
// name, installs it as log.Logger and returns it. pretty switches to the
// human-readable console writer.
func InitLogger(w io.Writer, pretty bool, service string) zerolog.Logger {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	host, _ := os.Hostname()
	l := zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Str("instance", FirstNonEmpty(os.Getenv("INSTANCE_ID"), host, "local")).
		Logger()
	log.Logger = l
	return l
}

// ParseBool reads an environment-style flag. ok is false when v is neither
// truthy ("1", "true", "yes", "y", "on") nor falsy ("0", "false", "no",
// "n", "off"), case-insensitively.
func ParseBool(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	}
	return false, false
}

// FirstNonEmpty returns the first value that is not blank, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
