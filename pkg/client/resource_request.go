package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
)

type ResourceRequest struct {
	Verb   string
	Path   string
	Values url.Values
	Header http.Header
	Body   io.Reader
}

func (r ResourceRequest) URL() string {
	u := path.Join("/", r.Path)
	if queryString := r.Values.Encode(); queryString != "" {
		u += "?" + queryString
	}
	return u
}

// StatusError is returned for any response outside of the 2xx range.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid response code %d for request url %q: %s", e.Code, e.URL, e.Body)
}

// Do sends r to the API server behind kc. A response outside of the 2xx
// range is read, closed and returned as a *StatusError.
func Do(ctx context.Context, kc Interface, r ResourceRequest) (*http.Response, error) {
	verb := r.Verb
	if verb == "" {
		verb = http.MethodGet
	}

	reqURL := kc.APIServerURL() + r.URL()
	req, err := http.NewRequestWithContext(ctx, verb, reqURL, r.Body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for name, values := range r.Header {
		req.Header.Del(name)
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := kc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		errmsg, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{
			Code: resp.StatusCode,
			URL:  reqURL,
			Body: string(errmsg),
		}
	}

	return resp, nil
}
