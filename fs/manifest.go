package fs

import (
	"context"
	"os"

	"github.com/fwojciec/docbase"
)

// Ensure ManifestFile implements docbase.ManifestSource at compile time.
var _ docbase.ManifestSource = (*ManifestFile)(nil)

// ManifestFile loads a line-oriented markdown manifest from a local file.
type ManifestFile struct{}

// NewManifestFile creates a new ManifestFile source.
func NewManifestFile() *ManifestFile {
	return &ManifestFile{}
}

// Load reads and parses the manifest at path. The returned manifest's
// Origin is the path itself.
func (m *ManifestFile) Load(ctx context.Context, path string) (*docbase.Manifest, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, docbase.Errorf(docbase.ENOTFOUND, "manifest %q not found", path)
	}
	if err != nil {
		return nil, err
	}

	entries, _ := docbase.ParseManifest(string(raw))
	return &docbase.Manifest{Origin: path, Entries: entries}, nil
}
