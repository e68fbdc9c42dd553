package stream

import (
	"github.com/samber/mo"
)

// FetchFunc fetches the page following prev. prev is absent on the first
// call. Returning an absent page ends the stream.
type FetchFunc[T any] func(prev mo.Option[[]T]) mo.Option[[]T]

// ResultFetchFunc is a FetchFunc which may fail. A failure ends the
// stream after it has been yielded as a single failed element.
type ResultFetchFunc[T any] func(prev mo.Option[[]T]) (mo.Option[[]T], error)

type lazyStream[T any] struct {
	fetch ResultFetchFunc[T]
	prev  mo.Option[[]T]
	page  []T
	pos   int
	done  bool
}

// Lazy turns a paginated fetch function into a single Stream of
// elements. Pages are fetched one at a time, only once every element of
// the previous page has been pulled, and each fetched page is passed back
// into fetch as the previous page.
//
// An empty page does not end the stream; only an absent page does. Once
// that happens fetch is never called again.
func Lazy[T any](fetch FetchFunc[T]) Stream[T] {
	return &lazyStream[T]{
		fetch: func(prev mo.Option[[]T]) (mo.Option[[]T], error) {
			return fetch(prev), nil
		},
	}
}

func (s *lazyStream[T]) Next() (T, error) {
	for {
		if s.pos < len(s.page) {
			item := s.page[s.pos]
			s.pos++
			return item, nil
		}
		if s.done {
			return eof[T]()
		}

		// fetch never fails here, the plain form has no error channel
		next, _ := s.fetch(s.prev)
		if !s.advance(next) {
			return eof[T]()
		}
	}
}

// advance records the newly fetched page, returning false if it
// terminated the stream.
func (s *lazyStream[T]) advance(next mo.Option[[]T]) bool {
	page, ok := next.Get()
	if !ok {
		s.done = true
		s.page = nil
		s.pos = 0
		return false
	}
	s.prev = next
	s.page = page
	s.pos = 0
	return true
}

type lazyResultStream[T any] struct {
	lazyStream[T]
}

// LazyResult is the error aware form of [Lazy]. Elements are yielded as
// successful results; if fetch fails the error is yielded as one final
// failed element, after which fetch is never called again.
func LazyResult[T any](fetch ResultFetchFunc[T]) Stream[mo.Result[T]] {
	return &lazyResultStream[T]{
		lazyStream: lazyStream[T]{fetch: fetch},
	}
}

func (s *lazyResultStream[T]) Next() (mo.Result[T], error) {
	for {
		if s.pos < len(s.page) {
			item := s.page[s.pos]
			s.pos++
			return mo.Ok(item), nil
		}
		if s.done {
			return eof[mo.Result[T]]()
		}

		next, err := s.fetch(s.prev)
		if err != nil {
			s.done = true
			s.page = nil
			return mo.Err[T](err), nil
		}
		if !s.advance(next) {
			return eof[mo.Result[T]]()
		}
	}
}
