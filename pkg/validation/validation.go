// Package validation checks values against a set of rules and reports
// every failed rule at once.
package validation

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/EmilyShepherd/go-stream/pkg/stream"
)

// FieldError is a single failed rule.
type FieldError struct {
	// Path locates the offending field, such as "metadata.name". It is
	// empty when the rule applies to the whole value.
	Path    string
	Message string
}

func (f FieldError) String() string {
	if f.Path == "" {
		return f.Message
	}
	return f.Path + ": " + f.Message
}

// Errors is the set of rules a value failed. A non-empty Errors is an
// error.
type Errors []FieldError

func (e Errors) Error() string {
	lines := lo.Map(e, func(f FieldError, _ int) string {
		return f.String()
	})
	return "Validation Failed\n" + strings.Join(lines, "\n")
}

// Func checks one aspect of a T.
type Func[T any] func(T) Errors

// Field returns a single FieldError when ok is false.
func Field(path string, ok bool, format string, args ...any) Errors {
	if ok {
		return nil
	}
	return Errors{{Path: path, Message: fmt.Sprintf(format, args...)}}
}

// Validate runs every rule against v. It returns nil if they all pass, or
// an Errors holding every failure.
func Validate[T any](v T, rules ...Func[T]) error {
	errs := Errors(lo.FlatMap(rules, func(rule Func[T], _ int) []FieldError {
		return rule(v)
	}))
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Result validates v and returns it as a Result.
func Result[T any](v T, rules ...Func[T]) mo.Result[T] {
	if err := Validate(v, rules...); err != nil {
		return mo.Err[T](err)
	}
	return mo.Ok(v)
}

// Results validates each element of s, so invalid elements travel along
// the stream as failures instead of ending it.
func Results[T any](s stream.Stream[T], rules ...Func[T]) stream.Stream[mo.Result[T]] {
	return stream.Map(s, func(v T) mo.Result[T] {
		return Result(v, rules...)
	})
}
