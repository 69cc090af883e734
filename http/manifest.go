package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/goquery"
)

// Ensure ManifestSource implements docbase.ManifestSource at compile time.
var _ docbase.ManifestSource = (*ManifestSource)(nil)

// ManifestSource loads manifests served over HTTP. The payload format is
// sniffed: an XML sitemap is parsed via the sitemap path, an HTML page is
// scanned for links, and anything else is treated as line-oriented markdown.
type ManifestSource struct {
	client *http.Client
}

// NewManifestSource creates a ManifestSource with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewManifestSource(client *http.Client) *ManifestSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &ManifestSource{client: client}
}

// Load fetches and parses the manifest at ref. The returned manifest's
// Origin is ref itself.
func (s *ManifestSource) Load(ctx context.Context, ref string) (*docbase.Manifest, error) {
	body, err := fetchText(ctx, s.client, ref)
	if err != nil {
		return nil, err
	}

	switch sniffFormat(body) {
	case formatSitemap:
		entries, err := parseSitemap(ctx, s.client, ref, body, make(map[string]bool))
		if err != nil {
			return nil, err
		}
		return &docbase.Manifest{Origin: ref, Entries: entries}, nil

	case formatHTML:
		entries, err := goquery.ExtractManifestLinks(body, ref)
		if err != nil {
			return nil, err
		}
		return &docbase.Manifest{Origin: ref, Entries: entries}, nil

	default:
		entries, _ := docbase.ParseManifest(body)
		return &docbase.Manifest{Origin: ref, Entries: entries}, nil
	}
}

type manifestFormat int

const (
	formatMarkdown manifestFormat = iota
	formatHTML
	formatSitemap
)

// sniffFormat inspects the payload to decide how to parse it.
func sniffFormat(body string) manifestFormat {
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 512 {
		head = head[:512]
	}
	switch {
	case strings.Contains(head, "<urlset") || strings.Contains(head, "<sitemapindex"):
		return formatSitemap
	case strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") || strings.Contains(head, "<body"):
		return formatHTML
	default:
		return formatMarkdown
	}
}

// fetchText retrieves the body at url using the same status classification
// as the fetcher.
func fetchText(ctx context.Context, client *http.Client, url string) (string, error) {
	f := NewFetcher(WithClient(client))
	return f.Fetch(ctx, url)
}
