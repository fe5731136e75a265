package console

import (
	"os"

	"github.com/mattn/go-isatty"
)

// ConsoleInstance is the global instance of console, so we don't have to pass it around everywhere
var ConsoleInstance = &Console{
	Color: IsTTY(os.Stderr),
	Level: InfoLevel,
	out:   os.Stdout,
	err:   os.Stderr,
}

// SetLevel sets log level
func SetLevel(level Level) {
	ConsoleInstance.Level = level
}

// SetColor sets whether to print colors
func SetColor(color bool) {
	ConsoleInstance.Color = color
}

func Debug(msg string) {
	ConsoleInstance.Debug(msg)
}

func Info(msg string) {
	ConsoleInstance.Info(msg)
}

func Warn(msg string) {
	ConsoleInstance.Warn(msg)
}

func Error(msg string) {
	ConsoleInstance.Error(msg)
}

func Fatal(msg string) {
	ConsoleInstance.Fatal(msg)
}

func Debugf(msg string, v ...interface{}) {
	ConsoleInstance.Debugf(msg, v...)
}

func Infof(msg string, v ...interface{}) {
	ConsoleInstance.Infof(msg, v...)
}

func Warnf(msg string, v ...interface{}) {
	ConsoleInstance.Warnf(msg, v...)
}

func Errorf(msg string, v ...interface{}) {
	ConsoleInstance.Errorf(msg, v...)
}

func Fatalf(msg string, v ...interface{}) {
	ConsoleInstance.Fatalf(msg, v...)
}

// Output a line to stdout. Useful for printing primary output of a command, e.g. a generated script.
func Output(s string) {
	ConsoleInstance.Output(s)
}

// IsTTY checks if a file is a TTY or not. E.g. IsTTY(os.Stdin)
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
