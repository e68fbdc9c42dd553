package pager

import (
	"context"
	"io"
	"maps"
	"strings"
	"sync"
	"sync/atomic"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/EmilyShepherd/go-stream/pkg/logging"
	"github.com/EmilyShepherd/go-stream/pkg/stream"
)

// Object is a pointer to a Kubernetes object type T.
type Object[T any] interface {
	*T
	metav1.Object
}

// Key is the cache key of the object called name in namespace.
func Key(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "/" + name
}

// SplitKey is the inverse of Key.
func SplitKey(key string) (namespace, name string) {
	if namespace, name, ok := strings.Cut(key, "/"); ok {
		return namespace, name
	}
	return "", key
}

// Cache holds a local copy of every object behind a Pager. It is filled
// by a full list, then kept current by a watch which starts from the
// list's resource version.
type Cache[T any, PT Object[T]] struct {
	events   stream.Stream[Event[T]]
	items    map[string]T
	itemLock sync.RWMutex

	done   chan struct{}
	err    error
	closed atomic.Bool
}

func NewCache[T any, PT Object[T]](ctx context.Context, p *Pager[T]) (*Cache[T, PT], error) {
	var resourceVersion string
	items, err := stream.ToResultSlice(stream.LazyResult(p.fetch(ctx, func(l *List[T]) {
		resourceVersion = l.ResourceVersion
	})))
	if err != nil {
		return nil, err
	}

	c := &Cache[T, PT]{
		items: make(map[string]T, len(items)),
		done:  make(chan struct{}),
	}
	for _, item := range items {
		c.items[c.key(&item)] = item
	}

	c.events, err = p.Watch(ctx, resourceVersion)
	if err != nil {
		return nil, err
	}

	go c.run(p)

	return c, nil
}

func (c *Cache[T, PT]) key(item *T) string {
	o := PT(item)
	return Key(o.GetNamespace(), o.GetName())
}

func (c *Cache[T, PT]) run(p *Pager[T]) {
	defer close(c.done)

	for e, err := range stream.All(c.events) {
		if err != nil {
			if !c.closed.Load() {
				logging.Error(p.opts.log)(err, "cache watch ended").Run()
				c.err = err
			}
			return
		}
		c.processEvent(e)
	}
}

// processEvent applies a change to the cache. Bookmark and Error events
// carry no object change and are skipped.
func (c *Cache[T, PT]) processEvent(e Event[T]) {
	key := c.key(&e.Object)

	switch e.Type {
	case watch.Added, watch.Modified:
		c.itemLock.Lock()
		c.items[key] = e.Object
		c.itemLock.Unlock()
	case watch.Deleted:
		c.itemLock.Lock()
		delete(c.items, key)
		c.itemLock.Unlock()
	}
}

func (c *Cache[T, PT]) Get(namespace, name string) (T, bool) {
	c.itemLock.RLock()
	defer c.itemLock.RUnlock()

	found, ok := c.items[Key(namespace, name)]
	return found, ok
}

// Items returns a copy of everything in the cache, by key.
func (c *Cache[T, PT]) Items() map[string]T {
	c.itemLock.RLock()
	defer c.itemLock.RUnlock()

	return maps.Clone(c.items)
}

// Done is closed once the watch behind the cache has ended, after which
// the cache no longer changes.
func (c *Cache[T, PT]) Done() <-chan struct{} {
	return c.done
}

// Err returns the error which ended the watch, if any. It is only
// meaningful once Done is closed.
func (c *Cache[T, PT]) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Close stops the watch. The cached items remain readable.
func (c *Cache[T, PT]) Close() error {
	c.closed.Store(true)
	if closer, ok := c.events.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
