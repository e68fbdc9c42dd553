package stream

import (
	"io"
	"sync"

	"github.com/gammazero/deque"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"
)

// Separated is a pair of Streams which share a single source.
type Separated[L, R any] struct {
	Left  Stream[L]
	Right Stream[R]
}

// Collect drains both sides concurrently.
func (s Separated[L, R]) Collect() ([]L, []R, error) {
	var (
		g     errgroup.Group
		left  []L
		right []R
	)

	g.Go(func() (err error) {
		left, err = ToSlice(s.Left)
		return err
	})
	g.Go(func() (err error) {
		right, err = ToSlice(s.Right)
		return err
	})

	err := g.Wait()
	return left, right, err
}

// Close closes both sides.
func (s Separated[L, R]) Close() error {
	return closeAll(s.Left, s.Right)
}

// Separate splits a Stream of tagged values into a Stream of the Left
// values and a Stream of the Right values.
//
// Both sides may be read independently, including from different
// goroutines, and the source is pulled at most once per element in
// total. Values which are pulled on behalf of one side but belong to the
// other are buffered until the other side asks for them. Each side
// preserves the order its values had in the source.
//
// If the source fails, the side which was pulling receives the error.
// The other side receives the same error once it has consumed the values
// which preceded the failure; the source is not pulled again.
//
// Closing one side discards the values buffered for it, and any later
// values of its kind, without disturbing the other side. The source is
// closed once both sides have been.
func Separate[L, R any](s Stream[mo.Either[L, R]]) Separated[L, R] {
	d := &demux[L, R]{
		source: s,
		buffer: deque.New[mo.Either[L, R]](),
	}

	return Separated[L, R]{
		Left: &side[L, R, L]{
			demux: d,
			left:  true,
			value: func(e mo.Either[L, R]) L {
				l, _ := e.Left()
				return l
			},
		},
		Right: &side[L, R, R]{
			demux: d,
			left:  false,
			value: func(e mo.Either[L, R]) R {
				r, _ := e.Right()
				return r
			},
		},
	}
}

// demux holds the state shared by both sides of a Separated pair. The
// lock is held for the whole of a find-or-pull so that the source cursor
// and the buffer always move together.
type demux[L, R any] struct {
	lock   sync.Mutex
	source Stream[mo.Either[L, R]]

	// buffer only ever holds values for one side: a side only pulls from
	// the source once none of its own values are buffered.
	buffer *deque.Deque[mo.Either[L, R]]

	// err is sticky once the source has ended or failed.
	err error

	leftClosed, rightClosed bool
}

func (d *demux[L, R]) closed(left bool) bool {
	if left {
		return d.leftClosed
	}
	return d.rightClosed
}

func (d *demux[L, R]) next(left bool) (mo.Either[L, R], error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	var zero mo.Either[L, R]

	if d.closed(left) {
		return zero, io.EOF
	}

	if d.buffer.Len() > 0 && d.buffer.Front().IsLeft() == left {
		return d.buffer.PopFront(), nil
	}

	for d.err == nil {
		e, err := d.source.Next()
		if err != nil {
			d.err = err
			break
		}
		if e.IsLeft() == left {
			return e, nil
		}
		if !d.closed(!left) {
			d.buffer.PushBack(e)
		}
	}

	return zero, d.err
}

func (d *demux[L, R]) close(left bool) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.closed(left) {
		return nil
	}
	if left {
		d.leftClosed = true
	} else {
		d.rightClosed = true
	}

	if d.buffer.Len() > 0 && d.buffer.Front().IsLeft() == left {
		d.buffer.Clear()
	}

	if d.leftClosed && d.rightClosed {
		d.buffer.Clear()
		return closeAll(d.source)
	}
	return nil
}

// side is one half of a Separated pair. T is L for the left side and R
// for the right.
type side[L, R, T any] struct {
	demux *demux[L, R]
	left  bool
	value func(mo.Either[L, R]) T
}

func (s *side[L, R, T]) Next() (T, error) {
	e, err := s.demux.next(s.left)
	if err != nil {
		var t T
		return t, err
	}
	return s.value(e), nil
}

func (s *side[L, R, T]) Close() error {
	return s.demux.close(s.left)
}
