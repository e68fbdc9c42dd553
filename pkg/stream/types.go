// Package stream implements lazy, pull-based sequences of values which
// can be composed much like one might do with an [io.Reader].
//
// Nothing happens until a consumer calls Next: constructors and
// operators only describe how the next value is produced. A Stream is a
// single live pull session, each position is yielded exactly once, and
// io.EOF signals the end of the sequence. Any other error returned from
// Next is a pull-time failure and ends the session.
//
// Failures which should not end a session are carried in-band, usually
// as [mo.Result] elements (see [LazyResult] and [ToResultSlice]).
package stream

import (
	"io"
)

// A Decoder is able to hydrate an arbitrary variable.
type Decoder interface {
	Decode(v any) error
}

// A Stream is able to provide a source of atomic data values.
//
// The source of a Stream's data is implementation specific - an example
// may be reading JSON objects from a long running HTTP response, or
// fetching pages from a paginated API.
//
// Next returns io.EOF once the stream is exhausted.
type Stream[T any] interface {
	Next() (T, error)
}

// Indexed is an externally indexed collection, such as a ring buffer or
// a view over another container.
type Indexed[T any] interface {
	Len() int
	At(i int) T
}

// StreamFunc adapts an ordinary function into a Stream.
type StreamFunc[T any] func() (T, error)

func (f StreamFunc[T]) Next() (T, error) {
	return f()
}

// closeAll closes every stream that implements io.Closer, returning the
// first error.
func closeAll(streams ...any) error {
	var first error
	for _, s := range streams {
		if closer, ok := s.(io.Closer); ok {
			if err := closer.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// eof returns the zero value of T along with io.EOF.
func eof[T any]() (T, error) {
	var t T
	return t, io.EOF
}

// pullStream is the Stream returned by operators. Closing it closes the
// streams it was built from.
type pullStream[T any] struct {
	next  func() (T, error)
	close func() error
}

func newPullStream[T any](next func() (T, error), inputs ...any) *pullStream[T] {
	return &pullStream[T]{
		next: next,
		close: func() error {
			return closeAll(inputs...)
		},
	}
}

func (p *pullStream[T]) Next() (T, error) {
	return p.next()
}

func (p *pullStream[T]) Close() error {
	return p.close()
}
