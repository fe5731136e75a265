package console

import (
	"errors"
	"strings"
)

// ErrInvalidLevel is returned if the severity level is invalid.
var ErrInvalidLevel = errors.New("invalid level")

// Level of severity.
type Level int

const (
	InvalidLevel Level = iota - 1
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var levelNames = [...]string{
	DebugLevel: "debug",
	InfoLevel:  "info",
	WarnLevel:  "warn",
	ErrorLevel: "error",
	FatalLevel: "fatal",
}

var levelStrings = map[string]Level{
	"debug":   DebugLevel,
	"info":    InfoLevel,
	"warn":    WarnLevel,
	"warning": WarnLevel,
	"error":   ErrorLevel,
	"fatal":   FatalLevel,
}

func (l Level) String() string {
	if l < DebugLevel || l > FatalLevel {
		return "invalid"
	}
	return levelNames[l]
}

// ParseLevel parses a level name such as "debug" or "warning".
func ParseLevel(s string) (Level, error) {
	l, ok := levelStrings[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return InvalidLevel, ErrInvalidLevel
	}
	return l, nil
}
