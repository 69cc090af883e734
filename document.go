package docbase

import (
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Document represents one normalized unit of upstream content.
type Document struct {
	// Stable key derived from SourceURL via DeriveID.
	ID string `json:"id" yaml:"id"`

	SourceURL   string `json:"sourceUrl" yaml:"source_url"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Location of the normalized body within the canonical store, relative
	// to the storage root. Owned by the indexer; never exposed to callers
	// outside the resolution API.
	StoragePath string `json:"storagePath" yaml:"storage_path"`

	// Coarse classification derived from the URL shape.
	Domain   string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// KeywordsOverride, when set (typically by hand-editing the index file),
	// replaces automatic keyword extraction for this document.
	KeywordsOverride []string `json:"keywordsOverride,omitempty" yaml:"keywords_override,omitempty"`

	ContentHash string    `json:"contentHash" yaml:"content_hash"`
	FetchedAt   time.Time `json:"fetchedAt" yaml:"fetched_at"`

	// Origin records which manifest or sitemap produced the document and
	// how it was retrieved (e.g. "http").
	Origin          string `json:"origin,omitempty" yaml:"origin,omitempty"`
	RetrievalMethod string `json:"retrievalMethod,omitempty" yaml:"retrieval_method,omitempty"`

	// Consecutive unreachable verdicts from drift passes. Reset to zero on
	// any successful fetch; removal requires reaching a configured threshold.
	Misses int `json:"misses,omitempty" yaml:"misses,omitempty"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	if d.SourceURL == "" {
		return Errorf(EINVALID, "document source URL required")
	}
	if d.ID != DeriveID(d.SourceURL) {
		return Errorf(EINVALID, "document ID %q does not derive from source URL %q", d.ID, d.SourceURL)
	}
	return nil
}

// HasKeyword reports whether the document's keyword set contains the token.
func (d *Document) HasKeyword(token string) bool {
	for _, k := range d.Keywords {
		if strings.EqualFold(k, token) {
			return true
		}
	}
	return false
}

// HasTag reports whether the document's tag set contains the tag.
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// DocumentRef is the lightweight form of a document returned by search and
// listing operations. It carries no body and no storage path.
type DocumentRef struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"sourceUrl"`
	Title     string    `json:"title,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
	Score     float64   `json:"score,omitempty"`
}

// Ref returns the DocumentRef form of the document.
func (d *Document) Ref() DocumentRef {
	return DocumentRef{
		ID:        d.ID,
		SourceURL: d.SourceURL,
		Title:     d.Title,
		Tags:      d.Tags,
		FetchedAt: d.FetchedAt,
	}
}

// DeriveID computes the stable identifier for a source URL.
// The derivation is deterministic: lowercase, scheme stripped, dots and
// slashes become hyphens, no trailing separator. Identical URLs always
// yield identical identifiers; two distinct URLs mapping to the same
// identifier is an index-integrity error surfaced as ECONFLICT at upsert.
func DeriveID(rawURL string) string {
	s := strings.ToLower(strings.TrimSpace(rawURL))
	if i := strings.Index(s, "://"); i != -1 {
		s = s[i+3:]
	}
	s = strings.TrimSuffix(s, "/")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	return s
}

// ClassifyURL derives the coarse (domain, category) classification from the
// URL shape. Domain is the host; category is the first path segment, or
// "general" for root-level pages.
func ClassifyURL(rawURL string) (domain, category string) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", "general"
	}
	domain = strings.ToLower(u.Host)
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return domain, "general"
	}
	category = strings.ToLower(strings.SplitN(path, "/", 2)[0])
	return domain, category
}

// HashContent computes the content fingerprint used for idempotence and
// drift detection, as a hex-encoded xxHash of the normalized body.
func HashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := []byte{
		byte(h >> 56), byte(h >> 48), byte(h >> 40), byte(h >> 32),
		byte(h >> 24), byte(h >> 16), byte(h >> 8), byte(h),
	}
	return hex.EncodeToString(b)
}
