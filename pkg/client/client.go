package client

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/EmilyShepherd/go-stream/pkg/token"
)

const (
	serviceAccountToken  = "/var/run/secrets/kubernetes.io/serviceaccount/token"
	serviceAccountCACert = "/var/run/secrets/kubernetes.io/serviceaccount/ca.crt"
)

// ErrNotInCluster is returned by NewInCluster when the service
// environment variables are missing.
var ErrNotInCluster = errors.New("unable to load in-cluster configuration, KUBERNETES_SERVICE_HOST and KUBERNETES_SERVICE_PORT must be defined")

// Interface is minimal kubernetes Client interface.
type Interface interface {
	// Do sends HTTP request to ObjectAPI server.
	Do(req *http.Request) (*http.Response, error)
	// APIServerURL returns API server URL.
	APIServerURL() string
}

type DefaultClient struct {
	HttpClient   *http.Client
	apiServerURL string

	token token.TokenProvider
}

type Option func(*DefaultClient)

// WithHTTPClient replaces the http.Client requests are sent with.
func WithHTTPClient(c *http.Client) Option {
	return func(kc *DefaultClient) {
		kc.HttpClient = c
	}
}

// WithCACert trusts the given PEM encoded certificates instead of the
// system roots.
func WithCACert(ca []byte) Option {
	return func(kc *DefaultClient) {
		certPool := x509.NewCertPool()
		certPool.AppendCertsFromPEM(ca)
		kc.HttpClient = &http.Client{
			Transport: &http.Transport{TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
				RootCAs:    certPool,
			}},
		}
	}
}

// New creates a client for the API server at host. tp may be nil, in
// which case requests are sent without credentials.
func New(host string, tp token.TokenProvider, opts ...Option) *DefaultClient {
	kc := &DefaultClient{
		HttpClient:   http.DefaultClient,
		apiServerURL: strings.TrimSuffix(host, "/"),
		token:        tp,
	}
	for _, opt := range opts {
		opt(kc)
	}
	return kc
}

// NewInCluster creates Client if it is inside Kubernetes.
func NewInCluster(opts ...Option) (*DefaultClient, error) {
	host, port := os.Getenv("KUBERNETES_SERVICE_HOST"), os.Getenv("KUBERNETES_SERVICE_PORT")
	if len(host) == 0 || len(port) == 0 {
		return nil, ErrNotInCluster
	}
	tp, err := token.NewFileToken(serviceAccountToken)
	if err != nil {
		return nil, err
	}
	ca, err := os.ReadFile(serviceAccountCACert)
	if err != nil {
		tp.Close()
		return nil, fmt.Errorf("reading service account CA: %w", err)
	}

	opts = append([]Option{WithCACert(ca)}, opts...)
	return New("https://"+net.JoinHostPort(host, port), tp, opts...), nil
}

func (kc *DefaultClient) Do(req *http.Request) (*http.Response, error) {
	if kc.token != nil {
		if token := kc.token.Token(); len(token) > 0 {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return kc.HttpClient.Do(req)
}

func (kc *DefaultClient) APIServerURL() string {
	return kc.apiServerURL
}
