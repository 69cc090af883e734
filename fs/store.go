// Package fs provides file-based implementations of the canonical store and
// the metadata index.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/docbase"
	"gopkg.in/yaml.v3"
)

// docsDir is the subdirectory of the storage root holding document bodies.
const docsDir = "docs"

// Ensure Store implements docbase.Store at compile time.
var _ docbase.Store = (*Store)(nil)

// Store is the canonical store: one file per document under the storage
// root, each prefixed with a YAML front matter metadata block followed by
// the normalized markdown body. The store is the durable source of truth;
// the index is derived from it.
type Store struct {
	root string
}

// NewStore creates a Store rooted at the given directory. Pointing the
// store (and index) at a different root is the supported way to run an
// isolated engine, e.g. for testing.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// frontMatter is the metadata block written ahead of each stored body.
type frontMatter struct {
	Source          string `yaml:"source"`
	Title           string `yaml:"title,omitempty"`
	Description     string `yaml:"description,omitempty"`
	ContentHash     string `yaml:"content_hash"`
	Fetched         string `yaml:"fetched"`
	Origin          string `yaml:"origin,omitempty"`
	RetrievalMethod string `yaml:"retrieval_method,omitempty"`
}

// URLToPath converts a documentation URL to a storage-relative file path.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docbase.Errorf(docbase.EINVALID, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return "", docbase.Errorf(docbase.EINVALID, "URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")

	// Root or trailing slash becomes index.md
	if path == "" {
		return filepath.Join(u.Host, "index.md"), nil
	}
	if strings.HasSuffix(path, "/") {
		return filepath.Join(u.Host, path, "index.md"), nil
	}

	return filepath.Join(u.Host, path+".md"), nil
}

// WriteBody stores the normalized body for doc atomically and returns the
// storage path relative to the storage root.
func (s *Store) WriteBody(ctx context.Context, doc *docbase.Document, body string) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}

	relPath, err := URLToPath(doc.SourceURL)
	if err != nil {
		return "", err
	}

	fm := frontMatter{
		Source:          doc.SourceURL,
		Title:           doc.Title,
		Description:     doc.Description,
		ContentHash:     doc.ContentHash,
		Fetched:         doc.FetchedAt.UTC().Format(time.RFC3339),
		Origin:          doc.Origin,
		RetrievalMethod: doc.RetrievalMethod,
	}
	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(body)

	fullPath := filepath.Join(s.root, docsDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}

	// Write to a temp file in the same directory, then rename into place so
	// a crash never leaves a partially-written body.
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".body-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return relPath, nil
}

// ReadBody loads a stored body and its front matter metadata. The returned
// document carries only the fields recorded in the front matter.
func (s *Store) ReadBody(ctx context.Context, storagePath string) (*docbase.Document, string, error) {
	raw, err := os.ReadFile(filepath.Join(s.root, docsDir, storagePath))
	if os.IsNotExist(err) {
		return nil, "", docbase.Errorf(docbase.ENOTFOUND, "no stored body at %q", storagePath)
	}
	if err != nil {
		return nil, "", err
	}

	meta, body, err := splitFrontMatter(string(raw))
	if err != nil {
		return nil, "", docbase.Errorf(docbase.ECORRUPT, "malformed front matter in %q: %s", storagePath, err)
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return nil, "", docbase.Errorf(docbase.ECORRUPT, "malformed front matter in %q: %s", storagePath, err)
	}

	doc := &docbase.Document{
		ID:              docbase.DeriveID(fm.Source),
		SourceURL:       fm.Source,
		Title:           fm.Title,
		Description:     fm.Description,
		StoragePath:     storagePath,
		ContentHash:     fm.ContentHash,
		Origin:          fm.Origin,
		RetrievalMethod: fm.RetrievalMethod,
	}
	if fm.Fetched != "" {
		t, err := time.Parse(time.RFC3339, fm.Fetched)
		if err != nil {
			return nil, "", docbase.Errorf(docbase.ECORRUPT, "malformed fetched timestamp in %q: %s", storagePath, err)
		}
		doc.FetchedAt = t
	}

	return doc, body, nil
}

// RemoveBody deletes a stored body and prunes directories it leaves empty.
func (s *Store) RemoveBody(ctx context.Context, storagePath string) error {
	fullPath := filepath.Join(s.root, docsDir, storagePath)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return docbase.Errorf(docbase.ENOTFOUND, "no stored body at %q", storagePath)
		}
		return err
	}

	// Best-effort prune of now-empty parents, stopping at the docs root.
	stop := filepath.Join(s.root, docsDir)
	for dir := filepath.Dir(fullPath); dir != stop; dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			break
		}
	}
	return nil
}

// ListBodies returns the storage paths of all stored bodies, sorted.
func (s *Store) ListBodies(ctx context.Context) ([]string, error) {
	base := filepath.Join(s.root, docsDir)
	var paths []string

	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == base {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// splitFrontMatter separates the leading "---" delimited metadata block from
// the body.
func splitFrontMatter(content string) (meta, body string, err error) {
	const delim = "---\n"
	if !strings.HasPrefix(content, delim) {
		return "", "", docbase.Errorf(docbase.ECORRUPT, "missing front matter delimiter")
	}
	rest := content[len(delim):]
	end := strings.Index(rest, "\n"+delim)
	if end == -1 {
		return "", "", docbase.Errorf(docbase.ECORRUPT, "unterminated front matter block")
	}
	meta = rest[:end+1]
	body = strings.TrimPrefix(rest[end+1+len(delim):], "\n")
	return meta, body, nil
}
