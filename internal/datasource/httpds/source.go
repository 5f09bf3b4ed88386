// Package httpds fetches pipeline inputs over HTTP(S).
package httpds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrStatus is returned for any non-2xx response.
var ErrStatus = errors.New("unexpected status")

// Source is a single GET-able URL.
type Source struct {
	url    string
	client *http.Client
}

// New returns a Source for url. A nil client means http.DefaultClient.
func New(url string, client *http.Client) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{url: url, client: client}
}

// Open issues one GET and returns the response body. There are no retries;
// the request is bound to ctx.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpds: build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpds: get %s: %w", s.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("httpds: get %s: %w %d", s.url, ErrStatus, resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *Source) String() string { return s.url }
