package stream

import (
	"errors"
	"io"
)

// Concat returns a Stream which yields every element of each stream in
// turn. A stream is not pulled until the one before it is exhausted.
func Concat[T any](streams ...Stream[T]) Stream[T] {
	pos := 0

	p := newPullStream(func() (T, error) {
		for pos < len(streams) {
			item, err := streams[pos].Next()
			if errors.Is(err, io.EOF) {
				closeAll(streams[pos])
				pos++
				continue
			}
			return item, err
		}
		return eof[T]()
	})
	p.close = func() error {
		if pos >= len(streams) {
			return nil
		}
		remaining := make([]any, 0, len(streams)-pos)
		for _, s := range streams[pos:] {
			remaining = append(remaining, s)
		}
		return closeAll(remaining...)
	}

	return p
}

// PrependAll returns a Stream which yields every element of more before
// the elements of s.
func PrependAll[T any](more, s Stream[T]) Stream[T] {
	return Concat(more, s)
}

// AppendAll returns a Stream which yields every element of more after
// the elements of s.
func AppendAll[T any](more, s Stream[T]) Stream[T] {
	return Concat(s, more)
}

// Ap applies every function yielded by fns to every value yielded by
// values. Functions are the outer loop: the first function is applied to
// each value in turn before the second function is pulled.
//
// As a Stream can only be read once, values are remembered as they are
// first pulled and replayed for each later function.
func Ap[A, B any](fns Stream[func(A) B], values Stream[A]) Stream[B] {
	var (
		fn      func(A) B
		haveFn  bool
		seen    []A
		pos     int
		drained bool
	)

	return newPullStream(func() (B, error) {
		var zero B
		for {
			if !haveFn {
				if drained && len(seen) == 0 {
					return eof[B]()
				}
				next, err := fns.Next()
				if err != nil {
					return zero, err
				}
				fn, haveFn = next, true
				pos = 0
			}

			if pos < len(seen) {
				a := seen[pos]
				pos++
				return fn(a), nil
			}

			if !drained {
				a, err := values.Next()
				if errors.Is(err, io.EOF) {
					drained = true
				} else if err != nil {
					return zero, err
				} else {
					seen = append(seen, a)
					pos++
					return fn(a), nil
				}
			}

			haveFn = false
		}
	}, fns, values)
}
