package main

import (
	"fmt"

	"github.com/fwojciec/docbase"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	if c.Section != "" {
		section, err := deps.Resolver.GetDocumentSection(deps.Ctx, c.ID, c.Section)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stdout, section)
		return nil
	}

	doc, err := deps.Resolver.ResolveDocID(deps.Ctx, c.ID)
	if err != nil {
		if docbase.ErrorCode(err) == docbase.ESTALE {
			fmt.Fprintf(deps.Stderr, "Hint: Run 'docbase cleanup %s' to repair stale content\n", c.ID)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, doc.Body)
	return nil
}

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	docs, err := deps.Index.All(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents indexed. Use 'docbase fetch' to add some.")
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Indexed documents (%d total):\n\n", len(docs))
	for _, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "  %s\n    %s\n", doc.ID, title)
		if len(doc.Tags) > 0 {
			fmt.Fprintf(deps.Stdout, "    tags: %v\n", doc.Tags)
		}
	}

	return nil
}
