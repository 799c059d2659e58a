package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mkowalski/docbase"
)

// Compile-time interface verification.
var _ docbase.StatsService = (*StatsService)(nil)

// StatsService implements docbase.StatsService using SQLite. The stats
// table holds a single row that each completed crawl replaces.
type StatsService struct {
	db *DB
}

// NewStatsService creates a new StatsService.
func NewStatsService(db *DB) *StatsService {
	return &StatsService{db: db}
}

// FindStats returns the stored stats.
func (s *StatsService) FindStats(ctx context.Context) (*docbase.CrawlStats, error) {
	var stats docbase.CrawlStats
	var lastScrape string

	err := s.db.QueryRowContext(ctx, `
		SELECT last_full_scrape, total_pages, scrape_duration
		FROM scrape_stats
		WHERE id = 1
	`).Scan(&lastScrape, &stats.TotalPages, &stats.ScrapeDuration)

	if err == sql.ErrNoRows {
		return nil, docbase.Errorf(docbase.ENOTFOUND, "no crawl has completed yet")
	}
	if err != nil {
		return nil, err
	}

	stats.LastFullScrape, err = time.Parse(time.RFC3339, lastScrape)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_full_scrape: %w", err)
	}
	return &stats, nil
}

// RecordCrawl replaces the stored stats with the given values.
func (s *StatsService) RecordCrawl(ctx context.Context, stats *docbase.CrawlStats) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scrape_stats (id, last_full_scrape, total_pages, scrape_duration)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			last_full_scrape = excluded.last_full_scrape,
			total_pages = excluded.total_pages,
			scrape_duration = excluded.scrape_duration
	`, stats.LastFullScrape.UTC().Format(time.RFC3339), stats.TotalPages, stats.ScrapeDuration)
	return err
}
