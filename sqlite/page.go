package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkowalski/docbase"
)

// Compile-time interface verification.
var _ docbase.PageService = (*PageService)(nil)

// PageService implements docbase.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

const pageColumns = "id, url, title, content, section, topic, category, content_hash, has_solution, answer_count, fetched_at"

// FindPageByURL retrieves a page by its unique URL.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*docbase.Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE url = ?
	`, url)

	page, err := scanPage(row)
	if err == sql.ErrNoRows {
		return nil, docbase.Errorf(docbase.ENOTFOUND, "page not found")
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

// FindPages retrieves pages matching the filter, newest first.
func (s *PageService) FindPages(ctx context.Context, filter docbase.PageFilter) ([]*docbase.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + pageColumns + " FROM pages WHERE 1=1")

	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	if filter.Section != nil {
		query.WriteString(" AND section = ?")
		args = append(args, *filter.Section)
	}
	if filter.Query != "" {
		query.WriteString(" AND (title LIKE ? OR content LIKE ?)")
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern)
	}

	query.WriteString(" ORDER BY fetched_at DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*docbase.Page
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// CreatePage creates a new page, assigning its ID and FetchedAt.
func (s *PageService) CreatePage(ctx context.Context, page *docbase.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}

	page.ID = uuid.New().String()
	page.FetchedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, page.ID, page.URL, page.Title, page.Content, page.Section, page.Topic, page.Category,
		page.ContentHash, boolToInt(page.HasSolution), page.AnswerCount,
		page.FetchedAt.Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return docbase.Errorf(docbase.ECONFLICT, "page already exists for URL %q", page.URL)
	}
	return err
}

// UpdatePage updates an existing page's content and metadata by ID and
// refreshes FetchedAt.
func (s *PageService) UpdatePage(ctx context.Context, page *docbase.Page) error {
	if err := page.Validate(); err != nil {
		return err
	}
	if page.ID == "" {
		return docbase.Errorf(docbase.EINVALID, "page ID required for update")
	}

	page.FetchedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE pages
		SET title = ?, content = ?, section = ?, topic = ?, category = ?,
			content_hash = ?, has_solution = ?, answer_count = ?, fetched_at = ?
		WHERE id = ?
	`, page.Title, page.Content, page.Section, page.Topic, page.Category,
		page.ContentHash, boolToInt(page.HasSolution), page.AnswerCount,
		page.FetchedAt.Format(time.RFC3339), page.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docbase.Errorf(docbase.ENOTFOUND, "page not found")
	}
	return nil
}

// ReplaceImages removes all images owned by the page and inserts the given
// set in their place.
func (s *PageService) ReplaceImages(ctx context.Context, pageID string, images []*docbase.Image) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM images WHERE page_id = ?", pageID); err != nil {
		return err
	}

	for _, img := range images {
		if img.ID == "" {
			img.ID = uuid.New().String()
		}
		img.PageID = pageID
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO images (id, page_id, url, alt_text, title, caption, context_before, context_after)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, img.ID, img.PageID, img.URL, img.AltText, img.Title, img.Caption, img.ContextBefore, img.ContextAfter); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindImagesByPage returns the images owned by a page.
func (s *PageService) FindImagesByPage(ctx context.Context, pageID string) ([]*docbase.Image, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, page_id, url, alt_text, title, caption, context_before, context_after
		FROM images
		WHERE page_id = ?
	`, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*docbase.Image
	for rows.Next() {
		var img docbase.Image
		if err := rows.Scan(&img.ID, &img.PageID, &img.URL, &img.AltText, &img.Title,
			&img.Caption, &img.ContextBefore, &img.ContextAfter); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}

// DeletePagesByCategory removes all pages for a category. Owned images go
// with them via the cascading foreign key.
func (s *PageService) DeletePagesByCategory(ctx context.Context, category string) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE category = ?", category)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// CountPages returns the total number of stored pages.
func (s *PageService) CountPages(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages").Scan(&count)
	return count, err
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*docbase.Page, error) {
	var page docbase.Page
	var hasSolution int
	var fetchedAt string

	if err := row.Scan(&page.ID, &page.URL, &page.Title, &page.Content, &page.Section,
		&page.Topic, &page.Category, &page.ContentHash, &hasSolution, &page.AnswerCount,
		&fetchedAt); err != nil {
		return nil, err
	}

	page.HasSolution = hasSolution != 0

	var err error
	page.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
	}
	return &page, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
