package main

import (
	"fmt"

	"github.com/fwojciec/docbase"
)

// Run executes the drift command.
func (c *DriftCmd) Run(deps *Dependencies) error {
	scope := c.ID
	if scope == "" {
		scope = docbase.ScopeAll
	}

	records, err := deps.Resolver.Detect(deps.Ctx, scope)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents to check.")
		return nil
	}

	for _, record := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s\n", record.ID, record.Verdict)
	}

	return nil
}

// Run executes the cleanup command.
func (c *CleanupCmd) Run(deps *Dependencies) error {
	scope := c.ID
	if scope == "" {
		scope = docbase.ScopeAll
	}

	records, err := deps.Resolver.Detect(deps.Ctx, scope)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	summary, err := deps.Resolver.Cleanup(deps.Ctx, records)
	if summary != nil {
		fmt.Fprintf(deps.Stdout, "Cleanup: %d updated, %d unchanged, %d deferred, %d removed\n",
			summary.Updated, summary.Unchanged, summary.Deferred, len(summary.Removed))
		for _, removal := range summary.Removed {
			fmt.Fprintf(deps.Stdout, "  removed %s (prior hash %s)\n", removal.ID, removal.PriorHash)
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	return nil
}
