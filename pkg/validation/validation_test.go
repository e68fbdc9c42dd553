package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EmilyShepherd/go-stream/pkg/stream"
	"github.com/EmilyShepherd/go-stream/pkg/validation"
)

type user struct {
	Name string
	Age  int
}

var rules = []validation.Func[user]{
	func(u user) validation.Errors {
		return validation.Field("name", u.Name != "", "must not be empty")
	},
	func(u user) validation.Errors {
		return validation.Field("age", u.Age >= 0, "must not be negative, got %d", u.Age)
	},
}

func TestValidate(t *testing.T) {
	require.NoError(t, validation.Validate(user{Name: "a", Age: 1}, rules...))

	err := validation.Validate(user{Age: -1}, rules...)
	require.EqualError(t, err, "Validation Failed\nname: must not be empty\nage: must not be negative, got -1")

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 2)
}

func TestValidateNoRules(t *testing.T) {
	require.NoError(t, validation.Validate(user{}))
}

func TestFieldWithoutPath(t *testing.T) {
	err := validation.Validate(1, func(n int) validation.Errors {
		return validation.Field("", n > 1, "too small")
	})
	require.EqualError(t, err, "Validation Failed\ntoo small")
}

func TestResults(t *testing.T) {
	out, err := stream.ToSlice(validation.Results(stream.FromSlice([]user{
		{Name: "a"},
		{Name: ""},
		{Name: "c"},
	}), rules...))
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.False(t, out[0].IsError())
	require.True(t, out[1].IsError())
	require.False(t, out[2].IsError())

	_, err = stream.ToResultSlice(validation.Results(stream.FromSlice([]user{{Name: "a"}, {}}), rules...))
	require.ErrorContains(t, err, "name: must not be empty")
}
