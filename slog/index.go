package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkowalski/docbase"
)

// Ensure LoggingIndexService implements docbase.IndexService.
var _ docbase.IndexService = (*LoggingIndexService)(nil)

// LoggingIndexService wraps an IndexService with logging.
type LoggingIndexService struct {
	next   docbase.IndexService
	logger *slog.Logger
}

// NewLoggingIndexService creates a new LoggingIndexService.
func NewLoggingIndexService(next docbase.IndexService, logger *slog.Logger) *LoggingIndexService {
	return &LoggingIndexService{next: next, logger: logger}
}

// IndexPage delegates to the wrapped service and logs the operation.
func (s *LoggingIndexService) IndexPage(ctx context.Context, page *docbase.Page, images []*docbase.Image) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("index page",
			"url", page.URL,
			"category", page.Category,
			"chunks", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.IndexPage(ctx, page, images)
}

// DeleteCategory delegates to the wrapped service and logs the operation.
func (s *LoggingIndexService) DeleteCategory(ctx context.Context, category string) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete category",
			"category", category,
			"chunks", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteCategory(ctx, category)
}
