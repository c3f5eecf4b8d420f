package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/panel-sync/internal/models"
)

// InsertSyncRun добавляет строку журнала по итогам завершённого запуска.
func (s *Storage) InsertSyncRun(ctx context.Context, run *models.SyncRun) (int64, error) {
	const op = "storage.InsertSyncRun"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stats := run.Stats
	if stats == nil {
		stats = &models.SyncStats{}
	}
	var newID int64
	query := `INSERT INTO sync_runs (mode, status, checked, created, updated, deactivated,
			      errors, error_text, started_at, finished_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		run.Mode, run.Status, stats.Checked, stats.Created, stats.Updated,
		stats.Deactivated, stats.Errors, run.Error, run.StartedAt, run.FinishedAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListSyncRuns возвращает последние запуски, свежие первыми.
func (s *Storage) ListSyncRuns(ctx context.Context, limit int) ([]*models.SyncRun, error) {
	const op = "storage.ListSyncRuns"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, mode, status, checked, created, updated, deactivated,
			      errors, error_text, started_at, finished_at
			  FROM sync_runs
			  ORDER BY started_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SyncRun
	for rows.Next() {
		var run models.SyncRun
		var stats models.SyncStats
		var errText sql.NullString
		var finishedAt sql.NullTime
		if err = rows.Scan(&run.ID, &run.Mode, &run.Status, &stats.Checked, &stats.Created,
			&stats.Updated, &stats.Deactivated, &stats.Errors, &errText,
			&run.StartedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		run.Stats = &stats
		run.Error = errText.String
		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}
		result = append(result, &run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
