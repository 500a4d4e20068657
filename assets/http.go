package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds the whole fetch, redirect included.
	DefaultTimeout = 5 * time.Second
	// DefaultMaxBytes caps a logo download.
	DefaultMaxBytes = 4 << 20
)

var (
	ErrTooManyRedirects = errors.New("more than one redirect")
	ErrTooLarge         = errors.New("asset exceeds size limit")
)

// HTTPFetcher downloads http(s) references, following at most one 301/302.
type HTTPFetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithHTTPClient sets the transport. Its redirect policy is replaced.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		cp := *c
		f.client = &cp
	}
}

func WithMaxBytes(n int64) HTTPOption {
	return func(f *HTTPFetcher) { f.maxBytes = n }
}

func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{client: &http.Client{}, timeout: DefaultTimeout, maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(f)
	}
	f.client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	target, err := url.Parse(ref)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	for hop := 0; ; hop++ {
		resp, err := f.get(ctx, target)
		if err != nil {
			return nil, &FetchError{Ref: ref, Err: err}
		}
		switch resp.StatusCode {
		case http.StatusOK:
			defer resp.Body.Close()
			data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
			if err != nil {
				return nil, &FetchError{Ref: ref, Err: err}
			}
			if int64(len(data)) > f.maxBytes {
				return nil, &FetchError{Ref: ref, Err: ErrTooLarge}
			}
			return data, nil
		case http.StatusMovedPermanently, http.StatusFound:
			resp.Body.Close()
			if hop > 0 {
				return nil, &FetchError{Ref: ref, Err: ErrTooManyRedirects}
			}
			loc, err := resp.Location()
			if err != nil {
				return nil, &FetchError{Ref: ref, Err: fmt.Errorf("redirect without location: %w", err)}
			}
			target = loc
		default:
			resp.Body.Close()
			return nil, &FetchError{Ref: ref, Err: fmt.Errorf("unexpected status %s", resp.Status)}
		}
	}
}

func (f *HTTPFetcher) get(ctx context.Context, u *url.URL) (*http.Response, error) {
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrUnsupported
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	return f.client.Do(req)
}
