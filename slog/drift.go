package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbase"
)

// Ensure LoggingDriftService implements docbase.DriftService.
var _ docbase.DriftService = (*LoggingDriftService)(nil)

// LoggingDriftService wraps a DriftService with debug logging.
type LoggingDriftService struct {
	next   docbase.DriftService
	logger *slog.Logger
}

// NewLoggingDriftService creates a new LoggingDriftService.
func NewLoggingDriftService(next docbase.DriftService, logger *slog.Logger) *LoggingDriftService {
	return &LoggingDriftService{next: next, logger: logger}
}

// Detect delegates to the wrapped service and logs the operation.
func (s *LoggingDriftService) Detect(ctx context.Context, scope string) (records []docbase.DriftRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("drift detection",
			"scope", scope,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Detect(ctx, scope)
}

// Cleanup delegates to the wrapped service and logs the operation.
func (s *LoggingDriftService) Cleanup(ctx context.Context, records []docbase.DriftRecord) (summary *docbase.CleanupSummary, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		}
		if summary != nil {
			attrs = append(attrs,
				"updated", summary.Updated,
				"unchanged", summary.Unchanged,
				"deferred", summary.Deferred,
				"removed", len(summary.Removed),
			)
		}
		s.logger.Info("drift cleanup", attrs...)
	}(time.Now())
	return s.next.Cleanup(ctx, records)
}
