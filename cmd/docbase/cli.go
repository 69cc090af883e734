package main

import (
	"context"
	"io"

	"github.com/fwojciec/docbase"
	"github.com/fwojciec/docbase/fetch"
	"github.com/fwojciec/docbase/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Index    *fs.Index
	Store    docbase.Store
	Resolver docbase.Resolver
	Runner   *fetch.Runner

	// Manifests resolves a manifest reference (local path or URL) to the
	// appropriate source.
	Manifests func(ref string) docbase.ManifestSource
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Fetch   FetchCmd   `cmd:"" help:"Fetch documents listed in a manifest"`
	Find    FindCmd    `cmd:"" help:"Find documents matching a free-text query"`
	Search  SearchCmd  `cmd:"" help:"Search documents by keywords"`
	Tags    TagsCmd    `cmd:"" help:"List documents carrying a tag"`
	Show    ShowCmd    `cmd:"" help:"Show a document or one of its sections"`
	Docs    DocsCmd    `cmd:"" help:"List all indexed documents"`
	Drift   DriftCmd   `cmd:"" help:"Check stored documents against their sources"`
	Cleanup CleanupCmd `cmd:"" help:"Detect drift and apply corrections"`
	Rebuild RebuildCmd `cmd:"" help:"Rebuild the index from the canonical store"`
	Check   CheckCmd   `cmd:"" help:"Report index/store inconsistencies"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Manifest string `arg:"" help:"Manifest path or URL"`
	Delay    int    `short:"d" default:"1000" help:"Minimum delay between requests in milliseconds"`
}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	Query []string `arg:"" help:"Free-text query"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Keywords []string `arg:"" help:"Keywords to match"`
}

// TagsCmd is the "tags" subcommand.
type TagsCmd struct {
	Tag string `arg:"" help:"Tag to look up"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID      string `arg:"" help:"Document identifier"`
	Section string `short:"s" help:"Show only the section matching this heading"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct{}

// DriftCmd is the "drift" subcommand.
type DriftCmd struct {
	ID string `arg:"" optional:"" help:"Document identifier (defaults to all)"`
}

// CleanupCmd is the "cleanup" subcommand.
type CleanupCmd struct {
	ID        string `arg:"" optional:"" help:"Document identifier (defaults to all)"`
	Threshold int    `short:"t" default:"3" help:"Consecutive misses before removal"`
}

// RebuildCmd is the "rebuild" subcommand.
type RebuildCmd struct{}

// CheckCmd is the "check" subcommand.
type CheckCmd struct{}
