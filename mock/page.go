package mock

import (
	"context"

	"github.com/mkowalski/docbase"
)

var _ docbase.PageService = (*PageService)(nil)

// PageService is a mock implementation of docbase.PageService.
type PageService struct {
	FindPageByURLFn         func(ctx context.Context, url string) (*docbase.Page, error)
	FindPagesFn             func(ctx context.Context, filter docbase.PageFilter) ([]*docbase.Page, error)
	CreatePageFn            func(ctx context.Context, page *docbase.Page) error
	UpdatePageFn            func(ctx context.Context, page *docbase.Page) error
	ReplaceImagesFn         func(ctx context.Context, pageID string, images []*docbase.Image) error
	FindImagesByPageFn      func(ctx context.Context, pageID string) ([]*docbase.Image, error)
	DeletePagesByCategoryFn func(ctx context.Context, category string) (int, error)
	CountPagesFn            func(ctx context.Context) (int, error)
}

func (s *PageService) FindPageByURL(ctx context.Context, url string) (*docbase.Page, error) {
	return s.FindPageByURLFn(ctx, url)
}

func (s *PageService) FindPages(ctx context.Context, filter docbase.PageFilter) ([]*docbase.Page, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *PageService) CreatePage(ctx context.Context, page *docbase.Page) error {
	return s.CreatePageFn(ctx, page)
}

func (s *PageService) UpdatePage(ctx context.Context, page *docbase.Page) error {
	return s.UpdatePageFn(ctx, page)
}

func (s *PageService) ReplaceImages(ctx context.Context, pageID string, images []*docbase.Image) error {
	if s.ReplaceImagesFn == nil {
		return nil
	}
	return s.ReplaceImagesFn(ctx, pageID, images)
}

func (s *PageService) FindImagesByPage(ctx context.Context, pageID string) ([]*docbase.Image, error) {
	if s.FindImagesByPageFn == nil {
		return nil, nil
	}
	return s.FindImagesByPageFn(ctx, pageID)
}

func (s *PageService) DeletePagesByCategory(ctx context.Context, category string) (int, error) {
	return s.DeletePagesByCategoryFn(ctx, category)
}

func (s *PageService) CountPages(ctx context.Context) (int, error) {
	if s.CountPagesFn == nil {
		return 0, nil
	}
	return s.CountPagesFn(ctx)
}

var _ docbase.StatsService = (*StatsService)(nil)

// StatsService is a mock implementation of docbase.StatsService.
type StatsService struct {
	FindStatsFn   func(ctx context.Context) (*docbase.CrawlStats, error)
	RecordCrawlFn func(ctx context.Context, stats *docbase.CrawlStats) error
}

func (s *StatsService) FindStats(ctx context.Context) (*docbase.CrawlStats, error) {
	return s.FindStatsFn(ctx)
}

func (s *StatsService) RecordCrawl(ctx context.Context, stats *docbase.CrawlStats) error {
	if s.RecordCrawlFn == nil {
		return nil
	}
	return s.RecordCrawlFn(ctx, stats)
}

var _ docbase.ErrorLogService = (*ErrorLogService)(nil)

// ErrorLogService is a mock implementation of docbase.ErrorLogService.
type ErrorLogService struct {
	LogErrorFn      func(ctx context.Context, e *docbase.ErrorLog) error
	FindErrorLogsFn func(ctx context.Context, limit int) ([]*docbase.ErrorLog, error)
}

func (s *ErrorLogService) LogError(ctx context.Context, e *docbase.ErrorLog) error {
	if s.LogErrorFn == nil {
		return nil
	}
	return s.LogErrorFn(ctx, e)
}

func (s *ErrorLogService) FindErrorLogs(ctx context.Context, limit int) ([]*docbase.ErrorLog, error) {
	return s.FindErrorLogsFn(ctx, limit)
}
