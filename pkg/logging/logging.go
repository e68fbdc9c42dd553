// Package logging wraps logr calls in Actions, so that a log line can be
// built up front and emitted later, or not at all.
package logging

import (
	"sync"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"
)

// Action is a deferred side effect. An Action returned by this package
// performs its log call at most once, however many times it is run.
type Action func()

// Run runs the Action if it is not nil.
func (a Action) Run() {
	if a != nil {
		a()
	}
}

// LogFunc builds an Action for a message and its key/value pairs.
type LogFunc func(msg string, keysAndValues ...any) Action

// Default returns the logger used when none is supplied.
func Default() logr.Logger {
	return klog.NewKlogr()
}

// With returns a logger with the given key/value pairs bound to it.
func With(l logr.Logger, keysAndValues ...any) logr.Logger {
	return l.WithValues(keysAndValues...)
}

func once(fn func()) Action {
	var o sync.Once
	return func() {
		o.Do(fn)
	}
}

// Error returns a function building Actions which log err at error level.
func Error(l logr.Logger) func(err error, msg string, keysAndValues ...any) Action {
	return func(err error, msg string, keysAndValues ...any) Action {
		return once(func() {
			l.Error(err, msg, keysAndValues...)
		})
	}
}

// Warn logs at info level with a severity key, as logr has no warning
// level of its own.
func Warn(l logr.Logger) LogFunc {
	return func(msg string, keysAndValues ...any) Action {
		return once(func() {
			l.Info(msg, append([]any{"severity", "warning"}, keysAndValues...)...)
		})
	}
}

func Info(l logr.Logger) LogFunc {
	return level(l, 0)
}

func Debug(l logr.Logger) LogFunc {
	return level(l, 1)
}

func Trace(l logr.Logger) LogFunc {
	return level(l, 2)
}

func level(l logr.Logger, v int) LogFunc {
	return func(msg string, keysAndValues ...any) Action {
		return once(func() {
			l.V(v).Info(msg, keysAndValues...)
		})
	}
}

// Sequence returns an Action which runs each of actions in order.
func Sequence(actions ...Action) Action {
	return func() {
		for _, a := range actions {
			a.Run()
		}
	}
}
