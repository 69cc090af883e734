package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbase"
)

// Ensure LoggingSearchService implements docbase.SearchService.
var _ docbase.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with debug logging.
type LoggingSearchService struct {
	next   docbase.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next docbase.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// SearchByKeywords delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) SearchByKeywords(ctx context.Context, tokens []string) (refs []docbase.DocumentRef, err error) {
	defer func(begin time.Time) {
		s.logger.Info("keyword search",
			"tokens", tokens,
			"count", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchByKeywords(ctx, tokens)
}

// DocsByTag delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) DocsByTag(ctx context.Context, tag string) (refs []docbase.DocumentRef, err error) {
	defer func(begin time.Time) {
		s.logger.Info("tag search",
			"tag", tag,
			"count", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DocsByTag(ctx, tag)
}

// FindDocument delegates to the wrapped service and logs the operation.
func (s *LoggingSearchService) FindDocument(ctx context.Context, query string) (refs []docbase.DocumentRef, err error) {
	defer func(begin time.Time) {
		s.logger.Info("free-text search",
			"query", query,
			"count", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindDocument(ctx, query)
}
