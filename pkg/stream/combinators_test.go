package stream_test

import (
	"io"
	"slices"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/EmilyShepherd/go-stream/pkg/stream"
)

func TestConcat(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("Concat matches appending the slices", prop.ForAll(
		func(a, b []int) bool {
			out, err := stream.ToSlice(stream.Concat(stream.FromSlice(a), stream.FromSlice(b)))
			return err == nil && slices.Equal(out, slices.Concat(a, b))
		},
		gen.SliceOf(gen.Int()),
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t)
}

func TestConcatIsLazy(t *testing.T) {
	pulled := false
	second := stream.StreamFunc[int](func() (int, error) {
		pulled = true
		return 0, io.EOF
	})

	s := stream.Concat(stream.FromSlice([]int{1, 2}), second)
	_, err := s.Next()
	require.NoError(t, err)
	_, err = s.Next()
	require.NoError(t, err)
	require.False(t, pulled)

	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
	require.True(t, pulled)
}

func TestConcatClosesRemaining(t *testing.T) {
	first := &closeRecorder[int]{Stream: stream.FromSlice([]int{1})}
	second := &closeRecorder[int]{Stream: stream.FromSlice([]int{2})}

	s := stream.Concat[int](first, second)
	_, err := s.Next()
	require.NoError(t, err)

	require.NoError(t, s.(io.Closer).Close())
	require.True(t, first.closed)
	require.True(t, second.closed)
}

func TestPrependAll(t *testing.T) {
	out, err := stream.ToSlice(stream.PrependAll(stream.FromSlice([]int{1, 2}), stream.FromSlice([]int{3})))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, out)
}

func TestAppendAll(t *testing.T) {
	out, err := stream.ToSlice(stream.AppendAll(stream.FromSlice([]int{1, 2}), stream.FromSlice([]int{3})))
	require.NoError(t, err)
	require.Equal(t, []int{3, 1, 2}, out)
}

func TestAp(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("Ap applies every function to every value, functions outermost", prop.ForAll(
		func(values []int, offsets []int) bool {
			fns := lo.Map(offsets, func(o int, _ int) func(int) int {
				return func(v int) int { return o + v }
			})

			out, err := stream.ToSlice(stream.Ap(stream.FromSlice(fns), stream.FromSlice(values)))
			if err != nil {
				return false
			}

			expected := []int{}
			for _, o := range offsets {
				for _, v := range values {
					expected = append(expected, o+v)
				}
			}
			return slices.Equal(out, expected)
		},
		gen.SliceOf(gen.IntRange(-1000, 1000)),
		gen.SliceOf(gen.IntRange(-1000, 1000)),
	))

	properties.TestingRun(t)
}

func TestApReadsValuesOnce(t *testing.T) {
	pulls := 0
	values := stream.Map(stream.FromSlice([]int{1, 2}), func(n int) int {
		pulls++
		return n
	})
	fns := stream.FromSlice([]func(int) string{
		func(n int) string { return "a" + strconv.Itoa(n) },
		func(n int) string { return "b" + strconv.Itoa(n) },
		func(n int) string { return "c" + strconv.Itoa(n) },
	})

	out, err := stream.ToSlice(stream.Ap(fns, values))
	require.NoError(t, err)
	require.Equal(t, []string{"a1", "a2", "b1", "b2", "c1", "c2"}, out)
	require.Equal(t, 2, pulls)
}
