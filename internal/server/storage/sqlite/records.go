package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/tradetrack/internal/models"
	"github.com/iudanet/tradetrack/internal/server/storage"
)

// InsertRecord stores a new row of a domain table
func (s *Storage) InsertRecord(ctx context.Context, rec *models.StoredRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (workspace_id, table_name, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.WorkspaceID, rec.Table, rec.ID, string(rec.Data),
		toMillis(rec.CreatedAt), toMillis(rec.UpdatedAt),
	)
	if err != nil {
		if isConstraint(err) {
			return storage.ErrRecordExists
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// GetRecord retrieves a single row
func (s *Storage) GetRecord(ctx context.Context, workspaceID, table, id string) (*models.StoredRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT workspace_id, table_name, id, data, created_at, updated_at
		FROM records
		WHERE workspace_id = ? AND table_name = ? AND id = ?`,
		workspaceID, table, id,
	)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// UpdateRecord replaces data of an existing row
func (s *Storage) UpdateRecord(ctx context.Context, rec *models.StoredRecord) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE records SET data = ?, updated_at = ?
		WHERE workspace_id = ? AND table_name = ? AND id = ?`,
		string(rec.Data), toMillis(rec.UpdatedAt),
		rec.WorkspaceID, rec.Table, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	return expectAffected(result, storage.ErrRecordNotFound)
}

// DeleteRecord removes the row; a missing row is not an error
func (s *Storage) DeleteRecord(ctx context.Context, workspaceID, table, id string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM records
		WHERE workspace_id = ? AND table_name = ? AND id = ?`,
		workspaceID, table, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// ListRecords returns all rows of the table in the workspace
func (s *Storage) ListRecords(ctx context.Context, workspaceID, table string) ([]*models.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT workspace_id, table_name, id, data, created_at, updated_at
		FROM records
		WHERE workspace_id = ? AND table_name = ?
		ORDER BY created_at, id`,
		workspaceID, table,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*models.StoredRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return records, nil
}

func scanRecord(row rowScanner) (*models.StoredRecord, error) {
	rec := &models.StoredRecord{}
	var (
		data                 string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&rec.WorkspaceID, &rec.Table, &rec.ID, &data, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.Data = []byte(data)
	rec.CreatedAt = fromMillis(createdAt)
	rec.UpdatedAt = fromMillis(updatedAt)
	return rec, nil
}
