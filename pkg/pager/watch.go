package pager

import (
	"context"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/watch"

	"github.com/EmilyShepherd/go-stream/pkg/client"
	"github.com/EmilyShepherd/go-stream/pkg/logging"
	"github.com/EmilyShepherd/go-stream/pkg/stream"
)

// Event is a single change reported by a watch request.
type Event[T any] struct {
	Type   watch.EventType `json:"type"`
	Object T               `json:"object"`
}

type watchStream[T any] struct {
	stream.Stream[Event[T]]
	body io.Closer
}

// Close stops the watch by closing the response body.
func (w *watchStream[T]) Close() error {
	return w.body.Close()
}

// Watch opens a watch on the endpoint, starting after resourceVersion,
// typically the ResourceVersion of a List. Events are decoded as they
// arrive. The stream ends when the server closes the connection, and
// fails with ErrInvalidEvent if an unknown event type is received.
//
// The returned stream implements io.Closer, which must be called to
// release the connection if the stream is not read to the end.
func (p *Pager[T]) Watch(ctx context.Context, resourceVersion string) (stream.Stream[Event[T]], error) {
	q := p.query()
	q.Set("watch", "1")
	if resourceVersion != "" {
		q.Set("resourceVersion", resourceVersion)
	}

	resp, err := client.Do(ctx, p.kc, client.ResourceRequest{
		Path:   p.path,
		Values: q,
		Header: p.opts.header,
	})
	if err != nil {
		return nil, err
	}

	events := stream.TryMap(stream.FromDecoder[Event[T]](p.opts.watchDecoder(resp.Body)), func(e Event[T]) (Event[T], error) {
		switch e.Type {
		case watch.Added, watch.Modified, watch.Deleted, watch.Bookmark, watch.Error:
			logging.Trace(p.opts.log)("watch event", "type", e.Type).Run()
			return e, nil
		default:
			return e, fmt.Errorf("%w: %v", ErrInvalidEvent, e.Type)
		}
	})

	return &watchStream[T]{
		Stream: events,
		body:   resp.Body,
	}, nil
}
