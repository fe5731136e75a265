// Package checker runs advisory checks over a source repository and the tool
// versions picked for it. Checkers never fail a build.
package checker

import (
	"fmt"

	"github.com/replicate/buildgen/pkg/errors"
	"github.com/replicate/buildgen/pkg/source"
	"github.com/replicate/buildgen/pkg/util/console"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

type Message struct {
	// Source names the checker that produced the message.
	Source  string
	Level   Level
	Content string
}

func (m Message) String() string {
	return fmt.Sprintf("[%s] %s: %s", m.Level, m.Source, m.Content)
}

type Checker interface {
	Name() string
	CheckSourceRepo(repo source.Repo) ([]Message, error)
	CheckToolVersions(tools map[string]string) ([]Message, error)
}

// Runner runs checkers in registration order.
type Runner struct {
	Checkers []Checker
	// Console receives checker failures. The global console is used when nil.
	Console *console.Console
}

func NewRunner(checkers ...Checker) *Runner {
	return &Runner{Checkers: checkers}
}

// Run appends the messages of every checker to sink. A call that errors or
// panics is logged and its messages dropped; the remaining calls still run.
func (r *Runner) Run(repo source.Repo, tools map[string]string, sink *[]Message) {
	if r == nil || sink == nil {
		return
	}
	for _, c := range r.Checkers {
		r.collect(c, "source repo check", sink, func() ([]Message, error) {
			return c.CheckSourceRepo(repo)
		})
		r.collect(c, "tool version check", sink, func() ([]Message, error) {
			return c.CheckToolVersions(tools)
		})
	}
}

func (r *Runner) collect(c Checker, phase string, sink *[]Message, fn func() ([]Message, error)) {
	messages, err := safeCall(fn)
	if err != nil {
		r.warn(&errors.CheckerError{Checker: c.Name(), Phase: phase, Err: err})
		return
	}
	for _, m := range messages {
		if m.Source == "" {
			m.Source = c.Name()
		}
		if m.Level == "" {
			m.Level = LevelWarning
		}
		*sink = append(*sink, m)
	}
}

func (r *Runner) warn(err error) {
	if r.Console != nil {
		r.Console.Warn(err.Error())
		return
	}
	console.Warn(err.Error())
}

func safeCall(fn func() ([]Message, error)) (messages []Message, err error) {
	defer func() {
		if p := recover(); p != nil {
			messages = nil
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

// Defaults returns the built-in checkers.
func Defaults() []Checker {
	return []Checker{
		HooksChecker{},
		VendoredDependenciesChecker{},
		EOLVersionsChecker{},
	}
}
