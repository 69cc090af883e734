package fs

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fwojciec/docbase"
	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Index file names under the storage root. The YAML file is the
// human-editable form; the JSON mirror exists for fast loading and is
// regenerated on every committed write.
const (
	indexYAMLFile = "index.yaml"
	indexJSONFile = "index.json"
	indexLockFile = "index.lock"
)

// DefaultLockTimeout bounds how long a writer waits for the index lock
// before failing with ELOCKED.
const DefaultLockTimeout = 5 * time.Second

// lockRetryDelay is the poll interval while waiting for the index lock.
const lockRetryDelay = 50 * time.Millisecond

// Ensure Index implements docbase.IndexService at compile time.
var _ docbase.IndexService = (*Index)(nil)

// Index is the file-based metadata index: a single structured mapping from
// identifier to document metadata. Writers serialize through an exclusive
// file lock around the read-modify-write cycle; readers load the last
// fully-written snapshot without taking the lock.
type Index struct {
	root        string
	lockTimeout time.Duration

	// Recovery source. When set, a structurally corrupt index is rebuilt
	// from the canonical store instead of failing, since the store is the
	// durable source of truth and the index is a derived artifact.
	Store    docbase.Store
	Keywords docbase.KeywordExtractor
	Tagger   docbase.Tagger

	Logger *slog.Logger
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithLockTimeout sets the write-lock acquisition timeout.
// Defaults to DefaultLockTimeout.
func WithLockTimeout(d time.Duration) IndexOption {
	return func(idx *Index) {
		idx.lockTimeout = d
	}
}

// NewIndex creates an Index rooted at the given directory.
func NewIndex(root string, opts ...IndexOption) *Index {
	idx := &Index{
		root:        root,
		lockTimeout: DefaultLockTimeout,
		Logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// QuarantinedEntry reports a malformed index entry that was excluded from
// operation rather than failing the whole index load.
type QuarantinedEntry struct {
	ID     string
	Reason string
}

// snapshot is one fully-written state of the index.
type snapshot struct {
	docs        map[string]*docbase.Document
	quarantined []QuarantinedEntry
}

// indexFileJSON mirrors the YAML structure for the JSON serialization.
type indexFileJSON struct {
	Documents map[string]json.RawMessage `json:"documents"`
}

// Upsert creates or refreshes the entry for doc under the exclusive index
// lock. See docbase.IndexService for the contract.
func (idx *Index) Upsert(ctx context.Context, doc *docbase.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	return idx.withLock(ctx, func(snap *snapshot) (bool, error) {
		existing, ok := snap.docs[doc.ID]
		if ok && existing.SourceURL != doc.SourceURL {
			return false, docbase.Errorf(docbase.ECONFLICT,
				"identifier %q derived from both %q and %q", doc.ID, existing.SourceURL, doc.SourceURL)
		}

		up := *doc
		up.Misses = 0

		if ok {
			// A hand-edited keyword override survives re-indexing.
			if len(existing.KeywordsOverride) > 0 && len(up.KeywordsOverride) == 0 {
				up.KeywordsOverride = existing.KeywordsOverride
			}
			// Unchanged content refreshes only the fetch timestamp.
			if existing.ContentHash == doc.ContentHash {
				refreshed := *existing
				refreshed.FetchedAt = doc.FetchedAt
				refreshed.Misses = 0
				snap.docs[doc.ID] = &refreshed
				return true, nil
			}
		}

		if len(up.KeywordsOverride) > 0 {
			up.Keywords = append([]string(nil), up.KeywordsOverride...)
		}

		snap.docs[doc.ID] = &up
		return true, nil
	})
}

// FindByID retrieves a document by identifier from the current snapshot.
func (idx *Index) FindByID(ctx context.Context, id string) (*docbase.Document, error) {
	snap, err := idx.snapshotForRead(ctx)
	if err != nil {
		return nil, err
	}
	doc, ok := snap.docs[id]
	if !ok {
		return nil, docbase.Errorf(docbase.ENOTFOUND, "document %q not found", id)
	}
	cp := *doc
	return &cp, nil
}

// All returns every well-formed entry, sorted by identifier.
func (idx *Index) All(ctx context.Context) ([]*docbase.Document, error) {
	snap, err := idx.snapshotForRead(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]*docbase.Document, 0, len(snap.docs))
	for _, doc := range snap.docs {
		cp := *doc
		docs = append(docs, &cp)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Delete removes an entry under the exclusive index lock.
func (idx *Index) Delete(ctx context.Context, id string) error {
	return idx.withLock(ctx, func(snap *snapshot) (bool, error) {
		if _, ok := snap.docs[id]; !ok {
			return false, docbase.Errorf(docbase.ENOTFOUND, "document %q not found", id)
		}
		delete(snap.docs, id)
		return true, nil
	})
}

// RecordMiss increments the consecutive-unreachable counter for an entry.
func (idx *Index) RecordMiss(ctx context.Context, id string) (int, error) {
	var misses int
	err := idx.withLock(ctx, func(snap *snapshot) (bool, error) {
		doc, ok := snap.docs[id]
		if !ok {
			return false, docbase.Errorf(docbase.ENOTFOUND, "document %q not found", id)
		}
		up := *doc
		up.Misses++
		misses = up.Misses
		snap.docs[id] = &up
		return true, nil
	})
	return misses, err
}

// Version returns the index's last-modified marker. Derived caches rebuild
// when their recorded version is older. Returns 0 for an absent index.
func (idx *Index) Version(ctx context.Context) (int64, error) {
	info, err := os.Stat(filepath.Join(idx.root, indexJSONFile))
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return info.ModTime().UnixNano(), nil
}

// Quarantined returns the malformed entries excluded from the current
// snapshot.
func (idx *Index) Quarantined(ctx context.Context) ([]QuarantinedEntry, error) {
	snap, err := idx.snapshotForRead(ctx)
	if err != nil {
		return nil, err
	}
	return snap.quarantined, nil
}

// withLock runs fn over the current snapshot while holding the exclusive
// index lock, and commits the modified snapshot if fn reports a mutation.
func (idx *Index) withLock(ctx context.Context, fn func(*snapshot) (bool, error)) error {
	return idx.withLockRaw(ctx, func() error {
		snap, err := idx.snapshotLocked(ctx)
		if err != nil {
			return err
		}

		mutated, err := fn(snap)
		if err != nil {
			return err
		}
		if !mutated {
			return nil
		}

		return idx.commit(snap)
	})
}

// withLockRaw acquires the exclusive index lock with a bounded wait and runs
// fn while holding it. An unavailable lock is ELOCKED, not an indefinite wait.
func (idx *Index) withLockRaw(ctx context.Context, fn func() error) error {
	if err := os.MkdirAll(idx.root, 0o755); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(idx.root, indexLockFile))

	lockCtx, cancel := context.WithTimeout(ctx, idx.lockTimeout)
	defer cancel()

	ok, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && lockCtx.Err() == nil {
		return err
	}
	if !ok {
		return docbase.Errorf(docbase.ELOCKED, "index busy: lock not acquired within %s", idx.lockTimeout)
	}
	defer lock.Unlock()

	return fn()
}

// commit writes both serializations with an append-then-swap pattern: each
// file is fully written to a temp path and renamed into place, never
// partially updated in place.
func (idx *Index) commit(snap *snapshot) error {
	type yamlFile struct {
		Documents map[string]*docbase.Document `yaml:"documents"`
	}

	yamlBytes, err := yaml.Marshal(&yamlFile{Documents: snap.docs})
	if err != nil {
		return err
	}

	jsonDocs := make(map[string]json.RawMessage, len(snap.docs))
	for id, doc := range snap.docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		jsonDocs[id] = raw
	}
	jsonBytes, err := json.MarshalIndent(&indexFileJSON{Documents: jsonDocs}, "", "  ")
	if err != nil {
		return err
	}

	if err := writeFileAtomic(filepath.Join(idx.root, indexYAMLFile), yamlBytes); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(idx.root, indexJSONFile), jsonBytes)
}

// loadSnapshot loads the last fully-written index state. The JSON mirror is
// preferred for speed; the YAML file is the fallback. Malformed individual
// entries are quarantined. If both serializations are structurally
// unreadable the result is ECORRUPT; recovery is the caller's concern since
// it commits a rebuilt index and therefore needs the lock.
func (idx *Index) loadSnapshot() (*snapshot, error) {
	snap, jsonErr := idx.loadJSON()
	if jsonErr == nil {
		return snap, nil
	}

	snap, yamlErr := idx.loadYAML()
	if yamlErr == nil {
		return snap, nil
	}

	if docbase.ErrorCode(jsonErr) != docbase.ECORRUPT && docbase.ErrorCode(yamlErr) != docbase.ECORRUPT {
		return nil, yamlErr
	}
	return nil, docbase.Errorf(docbase.ECORRUPT, "index unreadable: %s / %s",
		docbase.ErrorMessage(jsonErr), docbase.ErrorMessage(yamlErr))
}

// snapshotLocked loads the current snapshot, rebuilding a structurally
// corrupt index from the canonical store when a recovery source is
// configured. The caller must hold the index lock.
func (idx *Index) snapshotLocked(ctx context.Context) (*snapshot, error) {
	snap, err := idx.loadSnapshot()
	if err == nil || docbase.ErrorCode(err) != docbase.ECORRUPT || idx.Store == nil {
		return snap, err
	}

	idx.Logger.Warn("index corrupt, rebuilding from canonical store", "err", err)
	if err := idx.rebuildLocked(ctx); err != nil {
		return nil, err
	}
	return idx.loadSnapshot()
}

// snapshotForRead loads the current snapshot for a pure read. A corrupt
// index is recovered under the exclusive lock like any other index write,
// re-checking after acquisition in case another writer repaired it first.
func (idx *Index) snapshotForRead(ctx context.Context) (*snapshot, error) {
	snap, err := idx.loadSnapshot()
	if err == nil || docbase.ErrorCode(err) != docbase.ECORRUPT || idx.Store == nil {
		return snap, err
	}

	if lockErr := idx.withLockRaw(ctx, func() error {
		snap, err = idx.snapshotLocked(ctx)
		return err
	}); lockErr != nil {
		return nil, lockErr
	}
	return snap, nil
}

func (idx *Index) loadJSON() (*snapshot, error) {
	raw, err := os.ReadFile(filepath.Join(idx.root, indexJSONFile))
	if os.IsNotExist(err) {
		// Absent mirror defers to the YAML file; absent YAML means an
		// empty (brand new) index, which loadYAML handles.
		return idx.loadYAML()
	}
	if err != nil {
		return nil, err
	}

	var file indexFileJSON
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, docbase.Errorf(docbase.ECORRUPT, "index.json: %s", err)
	}

	snap := &snapshot{docs: make(map[string]*docbase.Document, len(file.Documents))}
	for id, rawDoc := range file.Documents {
		var doc docbase.Document
		if err := json.Unmarshal(rawDoc, &doc); err != nil {
			snap.quarantined = append(snap.quarantined, QuarantinedEntry{ID: id, Reason: err.Error()})
			continue
		}
		if err := validateEntry(id, &doc); err != nil {
			snap.quarantined = append(snap.quarantined, QuarantinedEntry{ID: id, Reason: docbase.ErrorMessage(err)})
			continue
		}
		snap.docs[id] = &doc
	}
	sortQuarantined(snap)
	return snap, nil
}

func (idx *Index) loadYAML() (*snapshot, error) {
	raw, err := os.ReadFile(filepath.Join(idx.root, indexYAMLFile))
	if os.IsNotExist(err) {
		return &snapshot{docs: make(map[string]*docbase.Document)}, nil
	}
	if err != nil {
		return nil, err
	}

	// Decode entries individually so one malformed entry is quarantined
	// instead of failing the whole load.
	var file struct {
		Documents map[string]yaml.Node `yaml:"documents"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, docbase.Errorf(docbase.ECORRUPT, "index.yaml: %s", err)
	}

	snap := &snapshot{docs: make(map[string]*docbase.Document, len(file.Documents))}
	for id, node := range file.Documents {
		var doc docbase.Document
		if err := node.Decode(&doc); err != nil {
			snap.quarantined = append(snap.quarantined, QuarantinedEntry{ID: id, Reason: err.Error()})
			continue
		}
		if err := validateEntry(id, &doc); err != nil {
			snap.quarantined = append(snap.quarantined, QuarantinedEntry{ID: id, Reason: docbase.ErrorMessage(err)})
			continue
		}
		snap.docs[id] = &doc
	}
	sortQuarantined(snap)
	return snap, nil
}

// validateEntry checks structural invariants of a loaded entry.
func validateEntry(id string, doc *docbase.Document) error {
	if doc.ID == "" {
		doc.ID = id
	}
	if doc.ID != id {
		return docbase.Errorf(docbase.EINVALID, "entry key %q disagrees with document ID %q", id, doc.ID)
	}
	if doc.SourceURL == "" {
		return docbase.Errorf(docbase.EINVALID, "entry %q has no source URL", id)
	}
	if doc.StoragePath == "" {
		return docbase.Errorf(docbase.EINVALID, "entry %q has no storage path", id)
	}
	return nil
}

func sortQuarantined(snap *snapshot) {
	sort.Slice(snap.quarantined, func(i, j int) bool {
		return snap.quarantined[i].ID < snap.quarantined[j].ID
	})
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
