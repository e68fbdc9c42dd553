// Package pager reads a Kubernetes-style list endpoint one page at a time,
// as a lazy stream of items.
//
// Each request carries a limit, and the continue token from the previous
// response. The stream ends once a response comes back without a
// continue token.
package pager

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/samber/mo"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/EmilyShepherd/go-stream/pkg/client"
	"github.com/EmilyShepherd/go-stream/pkg/logging"
	"github.com/EmilyShepherd/go-stream/pkg/stream"
	"github.com/EmilyShepherd/go-stream/pkg/validation"
)

// List is one page of a list response.
type List[T any] struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []T `json:"items"`
}

type Pager[T any] struct {
	kc   client.Interface
	path string
	opts options
}

// New returns a Pager for the list endpoint at path, such as
// "/api/v1/namespaces/default/configmaps".
func New[T any](kc client.Interface, path string, opt ...Option) *Pager[T] {
	opts := defaultOptions()
	for _, o := range opt {
		o(&opts)
	}
	opts.log = logging.With(opts.log, "path", path)

	return &Pager[T]{
		kc:   kc,
		path: path,
		opts: opts,
	}
}

func (p *Pager[T]) query() url.Values {
	q := url.Values{}
	for name, values := range p.opts.values {
		q[name] = append([]string(nil), values...)
	}
	return q
}

func (p *Pager[T]) page(ctx context.Context, continueToken string) (*List[T], error) {
	q := p.query()
	if p.opts.pageSize > 0 {
		q.Set("limit", strconv.FormatInt(p.opts.pageSize, 10))
	}
	if continueToken != "" {
		q.Set("continue", continueToken)
	}

	resp, err := client.Do(ctx, p.kc, client.ResourceRequest{
		Path:   p.path,
		Values: q,
		Header: p.opts.header,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list List[T]
	if err := p.opts.listDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &list, nil
}

// Fetch returns the function which fetches each page in turn. It is
// called by [stream.LazyResult] and keeps the continue token between
// calls, so each Fetch should only back one stream.
func (p *Pager[T]) Fetch(ctx context.Context) stream.ResultFetchFunc[T] {
	return p.fetch(ctx, nil)
}

// fetch is Fetch, calling onPage with each page as it arrives.
func (p *Pager[T]) fetch(ctx context.Context, onPage func(*List[T])) stream.ResultFetchFunc[T] {
	var (
		continueToken string
		started       bool
		pages         int
	)

	return func(mo.Option[[]T]) (mo.Option[[]T], error) {
		if started && continueToken == "" {
			logging.Debug(p.opts.log)("list complete", "pages", pages).Run()
			return mo.None[[]T](), nil
		}
		started = true

		list, err := p.page(ctx, continueToken)
		if err != nil {
			logging.Error(p.opts.log)(err, "fetching page failed", "page", pages+1).Run()
			return mo.None[[]T](), err
		}
		pages++
		continueToken = list.Continue
		if onPage != nil {
			onPage(list)
		}

		logging.Trace(p.opts.log)("fetched page", "page", pages, "items", len(list.Items)).Run()
		return mo.Some(list.Items), nil
	}
}

// Items returns every item of the list as a lazy stream. Nothing is
// requested until the stream is first pulled. A failed request is
// delivered as a single failed element, after which the stream ends.
func (p *Pager[T]) Items(ctx context.Context) stream.Stream[mo.Result[T]] {
	s := stream.LazyResult(p.Fetch(ctx))
	if p.opts.prefetch {
		return stream.NewAsyncStream(s)
	}
	return s
}

// Validated is Items, with every successfully fetched item checked
// against rules. Items which fail are delivered as failed elements and
// the stream carries on.
func (p *Pager[T]) Validated(ctx context.Context, rules ...validation.Func[T]) stream.Stream[mo.Result[T]] {
	return stream.Map(p.Items(ctx), func(r mo.Result[T]) mo.Result[T] {
		return r.FlatMap(func(item T) mo.Result[T] {
			return validation.Result(item, rules...)
		})
	})
}

// All fetches the whole list. It stops at the first failed request.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	return stream.ToResultSlice(p.Items(ctx))
}
