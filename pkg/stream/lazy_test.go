package stream_test

import (
	"errors"
	"io"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/stretchr/testify/require"

	"github.com/EmilyShepherd/go-stream/pkg/stream"
)

// pages returns a FetchFunc serving the given pages in order, and a
// counter of how many times it was called.
func pages[T any](all [][]T) (stream.FetchFunc[T], *int) {
	calls := 0
	return func(prev mo.Option[[]T]) mo.Option[[]T] {
		calls++
		if calls > len(all) {
			return mo.None[[]T]()
		}
		return mo.Some(all[calls-1])
	}, &calls
}

func TestLazyDrainsEveryPageOnce(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("n pages are fetched with n+1 calls", prop.ForAll(
		func(xs []int, size int) bool {
			chunks := lo.Chunk(xs, size)
			fetch, calls := pages(chunks)

			out, err := stream.ToSlice(stream.Lazy(fetch))
			if err != nil || len(out) != len(xs) {
				return false
			}
			for i := range xs {
				if out[i] != xs[i] {
					return false
				}
			}
			return *calls == len(chunks)+1
		},
		gen.SliceOf(gen.Int()),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

func TestLazyIsLazy(t *testing.T) {
	fetch, calls := pages([][]int{{1, 2}, {3}})
	s := stream.Lazy(fetch)
	require.Equal(t, 0, *calls)

	first, err := s.Next()
	require.NoError(t, err)
	require.Equal(t, 1, first)
	require.Equal(t, 1, *calls)

	// second element comes from the page already fetched
	_, err = s.Next()
	require.NoError(t, err)
	require.Equal(t, 1, *calls)
}

func TestLazyPassesPreviousPage(t *testing.T) {
	var seen []mo.Option[[]int]
	s := stream.Lazy(func(prev mo.Option[[]int]) mo.Option[[]int] {
		seen = append(seen, prev)
		last, ok := prev.Get()
		if !ok {
			return mo.Some([]int{1})
		}
		if last[0] == 3 {
			return mo.None[[]int]()
		}
		return mo.Some([]int{last[0] + 1})
	})

	out, err := stream.ToSlice(s)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, out)
	require.Equal(t, []mo.Option[[]int]{
		mo.None[[]int](),
		mo.Some([]int{1}),
		mo.Some([]int{2}),
		mo.Some([]int{3}),
	}, seen)
}

func TestLazyEmptyPageContinues(t *testing.T) {
	fetch, calls := pages([][]int{{}, {}, {1}, {}})

	out, err := stream.ToSlice(stream.Lazy(fetch))
	require.NoError(t, err)
	require.Equal(t, []int{1}, out)
	require.Equal(t, 5, *calls)
}

func TestLazyFirstFetchTerminates(t *testing.T) {
	fetch, calls := pages[int](nil)
	s := stream.Lazy(fetch)

	_, err := s.Next()
	require.ErrorIs(t, err, io.EOF)
	_, err = s.Next()
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 1, *calls)
}

func TestLazyResultPropagatesFailure(t *testing.T) {
	boom := errors.New("page 3 failed")

	properties := gopter.NewProperties(nil)
	properties.Property("k pages then one failure", prop.ForAll(
		func(k int) bool {
			calls := 0
			s := stream.LazyResult(func(prev mo.Option[[]int]) (mo.Option[[]int], error) {
				calls++
				if calls > k {
					return mo.None[[]int](), boom
				}
				return mo.Some([]int{calls, calls}), nil
			})

			out, err := stream.ToSlice(s)
			if err != nil || len(out) != 2*k+1 {
				return false
			}
			for _, r := range out[:2*k] {
				if r.IsError() {
					return false
				}
			}
			last := out[2*k]
			if !errors.Is(last.Error(), boom) {
				return false
			}

			// nothing is fetched after the failure
			if _, err := s.Next(); !errors.Is(err, io.EOF) {
				return false
			}
			return calls == k+1
		},
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}

func TestLazyResultCleanEnd(t *testing.T) {
	calls := 0
	s := stream.LazyResult(func(prev mo.Option[[]string]) (mo.Option[[]string], error) {
		calls++
		if prev.IsPresent() {
			return mo.None[[]string](), nil
		}
		return mo.Some([]string{"a", "b"}), nil
	})

	out, err := stream.ToResultSlice(s)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, out)
	require.Equal(t, 2, calls)
}
