package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Level defines the logging verbosity level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// Format defines the output format for logs.
type Format int

const (
	FormatHuman Format = iota
	FormatJSON
)

// Logger provides leveled diagnostic logging for the hook. Check output
// meant for the committing user goes to stdout separately; this channel
// carries operational diagnostics (skipped lines, store failures).
type Logger interface {
	Debug(ctx context.Context, message string, fields map[string]interface{})
	Info(ctx context.Context, message string, fields map[string]interface{})
	Warn(ctx context.Context, message string, fields map[string]interface{})
	Error(ctx context.Context, message string, fields map[string]interface{})
}

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ParseFormat maps a config string to a Format, defaulting to human.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, "json") {
		return FormatJSON
	}
	return FormatHuman
}

// DefaultLogger writes logs through the standard library logger.
type DefaultLogger struct {
	level  Level
	format Format
}

// New creates a logger with the specified level and format.
func New(level Level, format Format) *DefaultLogger {
	return &DefaultLogger{level: level, format: format}
}

func (l *DefaultLogger) Debug(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LevelDebug {
		return
	}
	l.emit("debug", "[DEBUG]", message, fields)
}

func (l *DefaultLogger) Info(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LevelInfo {
		return
	}
	l.emit("info", "[INFO]", message, fields)
}

func (l *DefaultLogger) Warn(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LevelInfo {
		return
	}
	l.emit("warn", "[WARN]", message, fields)
}

func (l *DefaultLogger) Error(ctx context.Context, message string, fields map[string]interface{}) {
	l.emit("error", "[ERROR]", message, fields)
}

func (l *DefaultLogger) emit(level, tag, message string, fields map[string]interface{}) {
	if l.format == FormatJSON {
		record := map[string]interface{}{
			"level":   level,
			"message": message,
		}
		for k, v := range fields {
			record[k] = v
		}
		encoded, err := json.Marshal(record)
		if err != nil {
			log.Printf("%s %s %v", tag, message, fields)
			return
		}
		log.Print(string(encoded))
		return
	}

	if len(fields) == 0 {
		log.Printf("%s %s", tag, message)
		return
	}

	// Sorted keys keep human output stable across runs.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	log.Printf("%s %s%s", tag, message, b.String())
}
