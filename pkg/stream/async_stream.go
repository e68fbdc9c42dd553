package stream

import (
	"errors"
	"io"
	"sync"
)

// AsyncStream acts as a wrapper for any Stream and reads it ahead of the
// consumer in its own goroutine.
//
// Most streams are synchronous by their nature, because the underlying
// source needs to be read sequentially, however it can still be useful to
// fetch the next value (such as the next page of a list) while the
// current one is being processed.
//
// Reading starts on the first call to Next or ResultChan, not when the
// AsyncStream is created.
type AsyncStream[T any] struct {
	stream  Stream[T]
	result  chan T
	done    chan struct{}
	start   sync.Once
	lock    sync.RWMutex
	stopped bool
	err     error
}

func NewAsyncStream[T any](stream Stream[T]) *AsyncStream[T] {
	return &AsyncStream[T]{
		stream: stream,
		result: make(chan T),
		done:   make(chan struct{}),
	}
}

func (sd *AsyncStream[T]) Stopped() bool {
	sd.lock.RLock()
	defer sd.lock.RUnlock()

	return sd.stopped
}

// run owns the wrapped stream: it is the only goroutine which pulls from
// or closes it once reading has begun.
func (sd *AsyncStream[T]) run() {
	defer close(sd.result)
	defer closeAll(sd.stream)

	for {
		select {
		case <-sd.done:
			return
		default:
		}

		result, err := sd.stream.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				sd.lock.Lock()
				sd.err = err
				sd.lock.Unlock()
			}
			return
		}

		select {
		case sd.result <- result:
		case <-sd.done:
			// Once stopped, the run loop drops anything it has read and
			// exits.
			return
		}
	}
}

func (sd *AsyncStream[T]) begin() {
	sd.start.Do(func() {
		go sd.run()
	})
}

// Stop ends the read-ahead goroutine. If the stream we've been given can
// be closed, it is closed by that goroutine once any pull in progress has
// returned, so Stop does not wait for it.
func (sd *AsyncStream[T]) Stop() {
	sd.lock.Lock()
	if sd.stopped {
		sd.lock.Unlock()
		return
	}
	sd.stopped = true
	close(sd.done)
	sd.lock.Unlock()

	// Reading never began, so nothing else can be using the stream.
	sd.start.Do(func() {
		close(sd.result)
		closeAll(sd.stream)
	})
}

// Close is Stop, for use as an io.Closer.
func (sd *AsyncStream[T]) Close() error {
	sd.Stop()
	return nil
}

func (sd *AsyncStream[T]) Next() (T, error) {
	if sd.Stopped() {
		return eof[T]()
	}
	sd.begin()

	select {
	case result, ok := <-sd.result:
		if ok {
			return result, nil
		}
	case <-sd.done:
		return eof[T]()
	}

	if err := sd.Error(); err != nil {
		var t T
		return t, err
	}
	return eof[T]()
}

// ResultChan returns the channel values are delivered on. It is closed
// when the underlying stream ends, fails or is stopped.
func (sd *AsyncStream[T]) ResultChan() <-chan T {
	sd.begin()
	return sd.result
}

func (sd *AsyncStream[T]) Error() error {
	sd.lock.RLock()
	defer sd.lock.RUnlock()

	return sd.err
}
