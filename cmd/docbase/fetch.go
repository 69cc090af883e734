package main

import (
	"fmt"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/fetch"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	source := deps.Manifests(c.Manifest)
	manifest, err := source.Load(deps.Ctx, c.Manifest)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(manifest.Entries) == 0 {
		fmt.Fprintf(deps.Stderr, "error: manifest %q lists no documents.\n", c.Manifest)
		return docbase.Errorf(docbase.EINVALID, "manifest %q lists no documents", c.Manifest)
	}

	fmt.Fprintf(deps.Stdout, "Fetching %d documents from %s\n", len(manifest.Entries), c.Manifest)

	report, runErr := deps.Runner.Run(deps.Ctx, manifest, func(event fetch.ProgressEvent) {
		switch event.Type {
		case fetch.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] saved %s\n", event.Completed, event.Total, event.URL)
		case fetch.ProgressSkipped:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] skipped %s (gone upstream)\n", event.Completed, event.Total, event.URL)
		case fetch.ProgressFailed:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] failed %s: %v\n", event.Completed, event.Total, event.URL, event.Error)
		}
	})

	if report != nil {
		fmt.Fprintf(deps.Stdout, "\nBatch %s: %d saved, %d skipped, %d failed\n",
			report.BatchID, report.Saved, report.Skipped, report.Failed)
	}
	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: batch interrupted: %s\n", docbase.ErrorMessage(runErr))
		return runErr
	}

	return nil
}
