package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docbase"
)

// Run executes the find command.
func (c *FindCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")
	refs, err := deps.Resolver.FindDocument(deps.Ctx, query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(refs) == 0 {
		fmt.Fprintf(deps.Stdout, "No documents match %q.\n", query)
		return nil
	}

	printRefs(deps, refs)
	return nil
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	refs, err := deps.Resolver.SearchByKeywords(deps.Ctx, c.Keywords)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(refs) == 0 {
		fmt.Fprintf(deps.Stdout, "No documents match keywords %s.\n", strings.Join(c.Keywords, ", "))
		return nil
	}

	printRefs(deps, refs)
	return nil
}

// Run executes the tags command.
func (c *TagsCmd) Run(deps *Dependencies) error {
	refs, err := deps.Resolver.DocsByTag(deps.Ctx, c.Tag)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbase.ErrorMessage(err))
		return err
	}

	if len(refs) == 0 {
		fmt.Fprintf(deps.Stdout, "No documents carry tag %q.\n", c.Tag)
		return nil
	}

	printRefs(deps, refs)
	return nil
}

func printRefs(deps *Dependencies, refs []docbase.DocumentRef) {
	for _, ref := range refs {
		title := ref.Title
		if title == "" {
			title = ref.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "%s  %s\n", ref.ID, title)
	}
}
