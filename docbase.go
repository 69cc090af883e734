// Package docbase provides a local documentation corpus manager.
// It fetches upstream reference pages from a manifest, normalizes them to
// markdown, stores them with retrieval metadata, maintains a keyword/tag
// index over them, and detects when stored copies drift from their sources.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., fs/, sqlite/, trafilatura/).
package docbase
