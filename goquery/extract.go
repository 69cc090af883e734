package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docbase"
)

// Ensure Extractor implements docbase.Extractor at compile time.
var _ docbase.Extractor = (*Extractor)(nil)

// Extractor is the last-resort content extractor: it strips obvious
// boilerplate elements and returns whatever remains of the body. Used when
// the higher-quality extractors produce nothing.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// boilerplateSelectors are elements removed before extraction.
var boilerplateSelectors = []string{
	"script", "style", "noscript", "nav", "header", "footer", "aside",
	"form", "iframe", "[role=navigation]", "[role=banner]",
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docbase.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docbase.Errorf(docbase.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docbase.Errorf(docbase.EINVALID, "failed to parse HTML: %v", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); title == "" && h1 != "" {
		title = h1
	}

	for _, sel := range boilerplateSelectors {
		doc.Find(sel).Remove()
	}

	// Prefer <main> or <article> when present, else the whole body
	content := doc.Find("main").First()
	if content.Length() == 0 {
		content = doc.Find("article").First()
	}
	if content.Length() == 0 {
		content = doc.Find("body").First()
	}

	html, err := content.Html()
	if err != nil {
		return nil, err
	}
	html = strings.TrimSpace(html)
	if html == "" {
		return nil, docbase.Errorf(docbase.EINVALID, "no content extracted")
	}

	return &docbase.ExtractResult{
		Title:       title,
		ContentHTML: html,
	}, nil
}
