package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkowalski/docbase"
)

// Compile-time interface verification.
var _ docbase.ErrorLogService = (*ErrorLogService)(nil)

// ErrorLogService implements docbase.ErrorLogService using SQLite.
type ErrorLogService struct {
	db *DB
}

// NewErrorLogService creates a new ErrorLogService.
func NewErrorLogService(db *DB) *ErrorLogService {
	return &ErrorLogService{db: db}
}

// LogError records an error, assigning its ID and CreatedAt.
func (s *ErrorLogService) LogError(ctx context.Context, e *docbase.ErrorLog) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO error_logs (id, kind, message, stack_trace, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, e.ID, e.Kind, e.Message, e.StackTrace, e.CreatedAt.Format(time.RFC3339Nano))
	return err
}

// FindErrorLogs returns the most recent errors, newest first.
func (s *ErrorLogService) FindErrorLogs(ctx context.Context, limit int) ([]*docbase.ErrorLog, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, message, stack_trace, created_at
		FROM error_logs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*docbase.ErrorLog
	for rows.Next() {
		var e docbase.ErrorLog
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Message, &e.StackTrace, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		logs = append(logs, &e)
	}
	return logs, rows.Err()
}
