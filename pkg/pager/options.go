package pager

import (
	"io"
	"net/http"
	"net/url"

	"github.com/go-logr/logr"
	jsoniter "github.com/json-iterator/go"

	"github.com/EmilyShepherd/go-stream/pkg/logging"
	"github.com/EmilyShepherd/go-stream/pkg/stream"
)

// DefaultPageSize is the limit sent with each list request unless
// WithPageSize says otherwise.
const DefaultPageSize = 500

// ResponseDecoderFunc builds the decoder a response body is read with.
type ResponseDecoderFunc func(r io.Reader) stream.Decoder

type Option func(opts *options)
type options struct {
	log                logr.Logger
	pageSize           int64
	responseDecodeFunc ResponseDecoderFunc
	header             http.Header
	values             url.Values
	prefetch           bool
}

func defaultOptions() options {
	return options{
		log:      logging.Default(),
		pageSize: DefaultPageSize,
		header:   http.Header{},
		values:   url.Values{},
	}
}

func (o options) listDecoder(r io.Reader) stream.Decoder {
	if o.responseDecodeFunc != nil {
		return o.responseDecodeFunc(r)
	}
	return jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(r)
}

func (o options) watchDecoder(r io.Reader) stream.Decoder {
	if o.responseDecodeFunc != nil {
		return o.responseDecodeFunc(r)
	}
	return newFrameDecoder(r)
}

func WithLogger(log logr.Logger) Option {
	return func(opts *options) {
		opts.log = log
	}
}

// WithResponseDecoder replaces the decoder used for both list and watch
// responses.
func WithResponseDecoder(decoderFunc ResponseDecoderFunc) Option {
	return func(opts *options) {
		opts.responseDecodeFunc = decoderFunc
	}
}

// WithPageSize sets the number of items asked for in each request. Zero
// or less leaves the size up to the server.
func WithPageSize(size int64) Option {
	return func(opts *options) {
		opts.pageSize = size
	}
}

// WithHeader adds a header to every request.
func WithHeader(name, value string) Option {
	return func(opts *options) {
		opts.header.Add(name, value)
	}
}

// WithQuery adds a query parameter to every request, such as a
// labelSelector or fieldSelector.
func WithQuery(name, value string) Option {
	return func(opts *options) {
		opts.values.Add(name, value)
	}
}

// WithPrefetch fetches the next page in the background while the
// current one is consumed.
func WithPrefetch() Option {
	return func(opts *options) {
		opts.prefetch = true
	}
}
