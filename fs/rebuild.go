package fs

import (
	"context"

	"github.com/fwojciec/docbase"
)

// Rebuild regenerates the index from the canonical store under the exclusive
// index lock. Every stored body becomes one entry; classification is
// re-derived when extractors are configured. Used for explicit recovery and
// automatically when both index serializations are unreadable.
func (idx *Index) Rebuild(ctx context.Context) error {
	if idx.Store == nil {
		return docbase.Errorf(docbase.EINVALID, "no canonical store configured for rebuild")
	}
	return idx.withLockRaw(ctx, func() error {
		return idx.rebuildLocked(ctx)
	})
}

// rebuildLocked regenerates and commits the index from the canonical store.
// The caller must hold the index lock.
func (idx *Index) rebuildLocked(ctx context.Context) error {
	paths, err := idx.Store.ListBodies(ctx)
	if err != nil {
		return err
	}

	snap := &snapshot{docs: make(map[string]*docbase.Document, len(paths))}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		doc, body, err := idx.Store.ReadBody(ctx, path)
		if err != nil {
			idx.Logger.Warn("skipping unreadable body during rebuild", "path", path, "err", err)
			continue
		}

		if existing, ok := snap.docs[doc.ID]; ok && existing.SourceURL != doc.SourceURL {
			return docbase.Errorf(docbase.ECONFLICT,
				"identifier %q derived from both %q and %q", doc.ID, existing.SourceURL, doc.SourceURL)
		}

		doc.Domain, doc.Category = docbase.ClassifyURL(doc.SourceURL)
		if idx.Keywords != nil {
			doc.Keywords = idx.Keywords.ExtractKeywords(body)
		}
		if idx.Tagger != nil {
			doc.Tags = idx.Tagger.AssignTags(body, path)
		}
		if doc.ContentHash == "" {
			doc.ContentHash = docbase.HashContent(body)
		}

		snap.docs[doc.ID] = doc
	}

	if err := idx.commit(snap); err != nil {
		return err
	}
	idx.Logger.Info("index rebuilt from canonical store", "documents", len(snap.docs))
	return nil
}
