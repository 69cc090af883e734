package fs

import (
	"context"
	"fmt"

	"github.com/fwojciec/docbase"
)

// Problem is one index/store inconsistency found by Check.
type Problem struct {
	ID          string `json:"id,omitempty"`
	StoragePath string `json:"storagePath,omitempty"`
	Description string `json:"description"`
}

// Check verifies the two-way invariant between index and canonical store:
// every storage path referenced by the index must point to an existing
// stored body, and every stored body must have exactly one index entry.
// Violations are reported, not silently tolerated. Quarantined entries are
// included as problems.
func (idx *Index) Check(ctx context.Context, store docbase.Store) ([]Problem, error) {
	docs, err := idx.All(ctx)
	if err != nil {
		return nil, err
	}
	quarantined, err := idx.Quarantined(ctx)
	if err != nil {
		return nil, err
	}
	paths, err := store.ListBodies(ctx)
	if err != nil {
		return nil, err
	}

	stored := make(map[string]bool, len(paths))
	for _, p := range paths {
		stored[p] = false
	}

	var problems []Problem
	for _, doc := range docs {
		claimed, ok := stored[doc.StoragePath]
		if !ok {
			problems = append(problems, Problem{
				ID:          doc.ID,
				StoragePath: doc.StoragePath,
				Description: "index entry references a missing stored body",
			})
			continue
		}
		if claimed {
			problems = append(problems, Problem{
				ID:          doc.ID,
				StoragePath: doc.StoragePath,
				Description: "stored body claimed by more than one index entry",
			})
			continue
		}
		stored[doc.StoragePath] = true
	}

	for _, p := range paths {
		if !stored[p] {
			problems = append(problems, Problem{
				StoragePath: p,
				Description: "stored body has no index entry",
			})
		}
	}

	for _, q := range quarantined {
		problems = append(problems, Problem{
			ID:          q.ID,
			Description: fmt.Sprintf("quarantined index entry: %s", q.Reason),
		})
	}

	return problems, nil
}
