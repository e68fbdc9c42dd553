package pager_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/EmilyShepherd/go-stream/pkg/client"
	"github.com/EmilyShepherd/go-stream/pkg/pager"
	"github.com/EmilyShepherd/go-stream/pkg/stream"
)

func watchServer(t *testing.T, body string) *pager.Pager[corev1.ConfigMap] {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("watch") != "1" || r.URL.Query().Get("resourceVersion") != "42" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	return pager.New[corev1.ConfigMap](client.New(ts.URL, nil), configMapsPath, pager.WithLogger(logr.Discard()))
}

func TestWatch(t *testing.T) {
	p := watchServer(t, `{"type":"ADDED","object":{"metadata":{"name":"a"}}}

{"type":"MODIFIED","object":{"metadata":{"name":"a"},"data":{"k":"v"}}}
{"type":"DELETED","object":{"metadata":{"name":"a"}}}
`)

	events, err := p.Watch(context.Background(), "42")
	require.NoError(t, err)
	defer events.(io.Closer).Close()

	out, err := stream.ToSlice(events)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, watch.Added, out[0].Type)
	require.Equal(t, watch.Modified, out[1].Type)
	require.Equal(t, "v", out[1].Object.Data["k"])
	require.Equal(t, watch.Deleted, out[2].Type)
	require.Equal(t, "a", out[2].Object.Name)
}

func TestWatchInvalidEvent(t *testing.T) {
	p := watchServer(t, `{"type":"ADDED","object":{"metadata":{"name":"a"}}}
{"type":"EXPLODED","object":{}}
{"type":"DELETED","object":{"metadata":{"name":"a"}}}
`)

	events, err := p.Watch(context.Background(), "42")
	require.NoError(t, err)
	defer events.(io.Closer).Close()

	out, err := stream.ToSlice(events)
	require.ErrorIs(t, err, pager.ErrInvalidEvent)
	require.Len(t, out, 1)
}

func TestWatchRequestFailure(t *testing.T) {
	p := watchServer(t, "")

	_, err := p.Watch(context.Background(), "")
	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.Code)
}
