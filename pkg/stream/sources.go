package stream

import (
	"fmt"
	"iter"
	"sync"

	"github.com/samber/mo"
)

type sliceStream[T any] struct {
	items []T
	pos   int
}

// FromSlice returns a Stream which yields each element of items once, in
// order. The slice is not copied.
func FromSlice[T any](items []T) Stream[T] {
	return &sliceStream[T]{items: items}
}

func (s *sliceStream[T]) Next() (T, error) {
	if s.pos >= len(s.items) {
		return eof[T]()
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

type indexedStream[T any] struct {
	items Indexed[T]
	pos   int
}

// FromIndexed returns a Stream over an externally indexed collection.
// Len is consulted on every pull, so elements appended while the stream
// is being read are included.
func FromIndexed[T any](items Indexed[T]) Stream[T] {
	return &indexedStream[T]{items: items}
}

func (s *indexedStream[T]) Next() (T, error) {
	if s.pos >= s.items.Len() {
		return eof[T]()
	}
	item := s.items.At(s.pos)
	s.pos++
	return item, nil
}

type seqStream[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
}

// FromSeq returns a Stream which pulls from seq. The iterator is not
// started until the first call to Next.
//
// The returned Stream implements io.Closer, which must be called if the
// stream is abandoned before it is exhausted.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	return &seqStream[T]{seq: seq}
}

func (s *seqStream[T]) Next() (T, error) {
	if s.next == nil {
		if s.seq == nil {
			return eof[T]()
		}
		s.next, s.stop = iter.Pull(s.seq)
	}

	item, ok := s.next()
	if !ok {
		s.Close()
		return eof[T]()
	}
	return item, nil
}

func (s *seqStream[T]) Close() error {
	if s.stop != nil {
		s.stop()
	}
	s.seq = nil
	s.next = func() (T, bool) {
		var t T
		return t, false
	}
	return nil
}

type chanStream[T any] struct {
	ch <-chan T
}

// FromChan returns a Stream which receives from ch until it is closed.
func FromChan[T any](ch <-chan T) Stream[T] {
	return &chanStream[T]{ch: ch}
}

func (s *chanStream[T]) Next() (T, error) {
	item, ok := <-s.ch
	if !ok {
		return eof[T]()
	}
	return item, nil
}

type decoderStream[T any] struct {
	decoder Decoder
}

// FromDecoder returns a Stream which decodes one T from decoder per pull.
// It ends when the decoder returns io.EOF. Any other decode error is
// returned from Next unchanged.
func FromDecoder[T any](decoder Decoder) Stream[T] {
	return &decoderStream[T]{decoder: decoder}
}

func (s *decoderStream[T]) Next() (T, error) {
	var item T
	if err := s.decoder.Decode(&item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

// From normalises any supported source into a Stream. Supported sources
// are Stream[T], []T, iter.Seq[T], Indexed[T] and channels of T.
//
// From panics if src is of any other type.
func From[T any](src any) Stream[T] {
	switch v := src.(type) {
	case Stream[T]:
		return v
	case []T:
		return FromSlice(v)
	case iter.Seq[T]:
		return FromSeq(v)
	case func(yield func(T) bool):
		return FromSeq(iter.Seq[T](v))
	case Indexed[T]:
		return FromIndexed(v)
	case <-chan T:
		return FromChan(v)
	case chan T:
		return FromChan(v)
	}

	panic(fmt.Sprintf("stream.From: unsupported source type %T", src))
}

type onceStream[T any] struct {
	value T
	done  bool
}

// Of returns a Stream which yields exactly one value.
func Of[T any](value T) Stream[T] {
	return &onceStream[T]{value: value}
}

func (s *onceStream[T]) Next() (T, error) {
	if s.done {
		return eof[T]()
	}
	s.done = true
	return s.value, nil
}

// Zero returns a Stream which yields no values. It is the identity for
// Concat.
func Zero[T any]() Stream[T] {
	return StreamFunc[T](eof[T])
}

// FromResult returns a Stream which calls fn on the first pull. If fn
// fails, its error is yielded as a single failed element; otherwise each
// returned item is yielded as a successful element.
func FromResult[T any](fn func() ([]T, error)) Stream[mo.Result[T]] {
	var (
		once  sync.Once
		inner Stream[mo.Result[T]]
	)

	return StreamFunc[mo.Result[T]](func() (mo.Result[T], error) {
		once.Do(func() {
			// a panicking fn leaves the stream ended rather than nil
			inner = Zero[mo.Result[T]]()
			items, err := fn()
			if err != nil {
				inner = Of(mo.Err[T](err))
				return
			}
			inner = Map(FromSlice(items), mo.Ok[T])
		})
		return inner.Next()
	})
}
