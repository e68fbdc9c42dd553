package stream

import (
	"errors"
	"io"
	"iter"

	"github.com/samber/mo"
)

// ToSlice drains s into a slice, preserving order.
//
// If a pull fails, the items collected so far are returned along with
// the error. This, and [ToResultSlice], are the only functions in this
// package which force a stream to be evaluated.
func ToSlice[T any](s Stream[T]) ([]T, error) {
	items := []T{}
	for {
		item, err := s.Next()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
}

// ToResultSlice drains a stream of results into a slice of the
// successful values.
//
// The first failed element is returned as the error and the stream is
// not pulled any further, so side effects which would follow the
// failure (such as fetching another page) do not happen. A pull error
// is returned the same way. In both cases the stream is closed if it
// implements io.Closer.
func ToResultSlice[T any](s Stream[mo.Result[T]]) ([]T, error) {
	items := []T{}
	for {
		result, err := s.Next()
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			closeAll(s)
			return nil, err
		}

		item, err := result.Get()
		if err != nil {
			closeAll(s)
			return nil, err
		}
		items = append(items, item)
	}
}

// All returns an iterator over s for use with range. A pull failure is
// yielded with the zero value as the final pair. Breaking out of the loop
// closes s if it implements io.Closer.
func All[T any](s Stream[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(item, err)
				return
			}
			if !yield(item, nil) {
				closeAll(s)
				return
			}
		}
	}
}
