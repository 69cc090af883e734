package main

import (
	"fmt"

	"github.com/fwojciec/docbase"
)

// Run executes the rebuild command.
func (c *RebuildCmd) Run(deps *Dependencies) error {
	if err := deps.Index.Rebuild(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	docs, err := deps.Index.All(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Index rebuilt from canonical store: %d documents.\n", len(docs))
	return nil
}

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	problems, err := deps.Index.Check(deps.Ctx, deps.Store)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(problems) == 0 {
		fmt.Fprintln(deps.Stdout, "Index and store are consistent.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Found %d problems:\n", len(problems))
	for _, p := range problems {
		ref := p.ID
		if ref == "" {
			ref = p.StoragePath
		}
		fmt.Fprintf(deps.Stdout, "  %s: %s\n", ref, p.Description)
	}

	return docbase.Errorf(docbase.ECORRUPT, "%d consistency problems found; run 'docbase rebuild' to repair", len(problems))
}
