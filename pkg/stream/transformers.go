package stream

import (
	"errors"
	"io"

	"github.com/samber/mo"
)

// MapWithIndex returns a Stream which yields fn(i, a) for each element a
// of s at zero based position i.
func MapWithIndex[A, B any](s Stream[A], fn func(i int, a A) B) Stream[B] {
	i := 0
	return newPullStream(func() (B, error) {
		a, err := s.Next()
		if err != nil {
			var b B
			return b, err
		}
		b := fn(i, a)
		i++
		return b, nil
	}, s)
}

// Map returns a Stream which yields fn(a) for each element a of s.
func Map[A, B any](s Stream[A], fn func(a A) B) Stream[B] {
	return MapWithIndex(s, func(_ int, a A) B {
		return fn(a)
	})
}

// TryMap is like Map, but fn may fail. A failure is returned from Next
// and ends the stream: every later pull returns the same error without
// pulling s.
func TryMap[A, B any](s Stream[A], fn func(a A) (B, error)) Stream[B] {
	var failed error
	return newPullStream(func() (B, error) {
		var zero B
		if failed != nil {
			return zero, failed
		}
		a, err := s.Next()
		if err != nil {
			return zero, err
		}
		b, err := fn(a)
		if err != nil {
			failed = err
			return zero, err
		}
		return b, nil
	}, s)
}

// FlatMap returns a Stream which yields every element of fn(a), in order,
// for each element a of s. Each inner stream is drained before the next
// element of s is pulled.
func FlatMap[A, B any](s Stream[A], fn func(a A) Stream[B]) Stream[B] {
	var inner Stream[B]

	p := newPullStream(func() (B, error) {
		for {
			if inner != nil {
				b, err := inner.Next()
				if errors.Is(err, io.EOF) {
					closeAll(inner)
					inner = nil
					continue
				}
				return b, err
			}

			a, err := s.Next()
			if err != nil {
				var b B
				return b, err
			}
			inner = fn(a)
		}
	})
	p.close = func() error {
		return closeAll(inner, s)
	}

	return p
}

// Flatten concatenates a Stream of Streams.
func Flatten[A any](ss Stream[Stream[A]]) Stream[A] {
	return FlatMap(ss, func(s Stream[A]) Stream[A] {
		return s
	})
}

// FilterWithIndex returns a Stream which yields only the elements for
// which predicate returns true. The index counts every element of s, not
// just those which were kept.
func FilterWithIndex[A any](s Stream[A], predicate func(i int, a A) bool) Stream[A] {
	return FilterMapWithIndex(s, func(i int, a A) mo.Option[A] {
		if predicate(i, a) {
			return mo.Some(a)
		}
		return mo.None[A]()
	})
}

// Filter returns a Stream which yields only the elements for which
// predicate returns true.
func Filter[A any](s Stream[A], predicate func(a A) bool) Stream[A] {
	return FilterWithIndex(s, func(_ int, a A) bool {
		return predicate(a)
	})
}

// FilterMapWithIndex returns a Stream of the present values returned by
// fn, in order.
func FilterMapWithIndex[A, B any](s Stream[A], fn func(i int, a A) mo.Option[B]) Stream[B] {
	i := 0
	return newPullStream(func() (B, error) {
		for {
			a, err := s.Next()
			if err != nil {
				var b B
				return b, err
			}
			result := fn(i, a)
			i++
			if b, ok := result.Get(); ok {
				return b, nil
			}
		}
	}, s)
}

// FilterMap returns a Stream of the present values returned by fn.
func FilterMap[A, B any](s Stream[A], fn func(a A) mo.Option[B]) Stream[B] {
	return FilterMapWithIndex(s, func(_ int, a A) mo.Option[B] {
		return fn(a)
	})
}

// Compact drops every absent value from s.
func Compact[A any](s Stream[mo.Option[A]]) Stream[A] {
	return FilterMap(s, func(a mo.Option[A]) mo.Option[A] {
		return a
	})
}

// PartitionWithIndex splits s in two. Left yields the elements for which
// predicate is false, Right those for which it is true. s is read only
// once between both sides, see [Separate].
func PartitionWithIndex[A any](s Stream[A], predicate func(i int, a A) bool) Separated[A, A] {
	return PartitionMapWithIndex(s, func(i int, a A) mo.Either[A, A] {
		if predicate(i, a) {
			return mo.Right[A, A](a)
		}
		return mo.Left[A, A](a)
	})
}

// Partition splits s by predicate. See [PartitionWithIndex].
func Partition[A any](s Stream[A], predicate func(a A) bool) Separated[A, A] {
	return PartitionWithIndex(s, func(_ int, a A) bool {
		return predicate(a)
	})
}

// PartitionMapWithIndex tags every element of s with fn and splits the
// result by tag.
func PartitionMapWithIndex[A, L, R any](s Stream[A], fn func(i int, a A) mo.Either[L, R]) Separated[L, R] {
	return Separate(MapWithIndex(s, fn))
}

// PartitionMap tags every element of s with fn and splits the result by
// tag.
func PartitionMap[A, L, R any](s Stream[A], fn func(a A) mo.Either[L, R]) Separated[L, R] {
	return PartitionMapWithIndex(s, func(_ int, a A) mo.Either[L, R] {
		return fn(a)
	})
}
