package mock

import (
	"context"

	"github.com/fwojciec/docbase"
)

var _ docbase.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docbase.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ docbase.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docbase.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docbase.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docbase.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docbase.Converter = (*Converter)(nil)

// Converter is a mock implementation of docbase.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docbase.ManifestSource = (*ManifestSource)(nil)

// ManifestSource is a mock implementation of docbase.ManifestSource.
type ManifestSource struct {
	LoadFn func(ctx context.Context, ref string) (*docbase.Manifest, error)
}

func (s *ManifestSource) Load(ctx context.Context, ref string) (*docbase.Manifest, error) {
	return s.LoadFn(ctx, ref)
}
