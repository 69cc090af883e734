// Package readability provides a fallback content extractor backed by
// go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/docbase"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docbase.Extractor at compile time.
var _ docbase.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docbase.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docbase.Errorf(docbase.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &docbase.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
