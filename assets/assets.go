// Package assets resolves logo references to bytes. The render service treats
// every failure here as non-fatal: the document is produced without a logo.
package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher loads the bytes behind a reference such as an https:// URL.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, ref string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, ref string) ([]byte, error) { return f(ctx, ref) }

// ErrUnsupported is wrapped by FetchError for references no fetcher handles.
var ErrUnsupported = errors.New("unsupported asset reference")

// FetchError reports a failed fetch.
type FetchError struct {
	Ref string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("assets: fetch %s: %v", redact(e.Ref), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func fetchErr(ref string, err error) error {
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Ref: ref, Err: err}
}

// redact keeps data: URLs and credentials out of logs.
func redact(ref string) string {
	if strings.HasPrefix(ref, "data:") {
		return "data:…"
	}
	u, err := url.Parse(ref)
	if err != nil || u.User == nil {
		return ref
	}
	u.User = nil
	return u.String()
}

// Mux dispatches on the reference scheme.
type Mux struct {
	fetchers map[string]Fetcher
}

// NewMux returns a mux that already understands data: URIs.
func NewMux() *Mux {
	m := &Mux{fetchers: map[string]Fetcher{}}
	m.Handle("data", FetcherFunc(fetchData))
	return m
}

// Handle registers f for scheme (without "://").
func (m *Mux) Handle(scheme string, f Fetcher) *Mux {
	m.fetchers[strings.ToLower(scheme)] = f
	return m
}

func (m *Mux) Fetch(ctx context.Context, ref string) ([]byte, error) {
	scheme := ""
	if i := strings.Index(ref, ":"); i > 0 {
		scheme = strings.ToLower(ref[:i])
	}
	f, ok := m.fetchers[scheme]
	if !ok {
		return nil, &FetchError{Ref: ref, Err: ErrUnsupported}
	}
	data, err := f.Fetch(ctx, ref)
	if err != nil {
		return nil, fetchErr(ref, err)
	}
	return data, nil
}

// fetchData decodes base64 data: URIs, the form the wizard uses for uploads.
func fetchData(_ context.Context, ref string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, &FetchError{Ref: ref, Err: ErrUnsupported}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	return data, nil
}

// FileFetcher reads file:// references and bare paths below Root.
type FileFetcher struct {
	Root string
}

func (f FileFetcher) Fetch(_ context.Context, ref string) ([]byte, error) {
	p := strings.TrimPrefix(ref, "file://")
	if f.Root != "" {
		clean := filepath.Clean("/" + p)
		p = filepath.Join(f.Root, clean)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, &FetchError{Ref: ref, Err: err}
	}
	return data, nil
}
