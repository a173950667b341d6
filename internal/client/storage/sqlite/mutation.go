package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tradetrack/internal/client/storage"
	"github.com/iudanet/tradetrack/internal/models"
)

const mutationColumns = `id, workspace_id, operation, table_name, record_id, data,
	created_at, attempts, last_attempt, last_error, status`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Enqueue persists a new pending record
func (s *Storage) Enqueue(ctx context.Context, workspaceID string, op models.Operation, table, entityID string, payload []byte) (*models.MutationRecord, error) {
	var rec *models.MutationRecord
	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		rec, err = s.insertMutation(ctx, tx, workspaceID, op, table, entityID, payload)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Storage) insertMutation(ctx context.Context, ex execer, workspaceID string, op models.Operation, table, entityID string, payload []byte) (*models.MutationRecord, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("workspace id is required")
	}
	if _, err := models.ParseOperation(string(op)); err != nil {
		return nil, err
	}
	if _, err := models.LookupTable(table); err != nil {
		return nil, err
	}
	if entityID == "" {
		return nil, fmt.Errorf("entity id is required")
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	now := s.now().UTC()
	rec := &models.MutationRecord{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		Operation:   op,
		EntityTable: table,
		EntityID:    entityID,
		Payload:     payload,
		CreatedAt:   now,
		Status:      models.StatusPending,
	}

	query := `
		INSERT INTO sync_queue (id, workspace_id, operation, table_name, record_id, data,
			created_at, updated_at, attempts, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`
	_, err := ex.ExecContext(ctx, query,
		rec.ID, rec.WorkspaceID, string(rec.Operation), rec.EntityTable, rec.EntityID, string(rec.Payload),
		now.UnixNano(), now.UnixNano(), string(models.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert mutation: %w", err)
	}
	return rec, nil
}

// ListPending returns pending records of workspace ordered by enqueue time.
// rowid разрешает порядок записей с одинаковым created_at.
func (s *Storage) ListPending(ctx context.Context, workspaceID string) ([]models.MutationRecord, error) {
	return s.ListMutations(ctx, workspaceID, models.StatusPending)
}

// ListMutations returns records of workspace with given statuses in enqueue order
func (s *Storage) ListMutations(ctx context.Context, workspaceID string, statuses ...models.MutationStatus) ([]models.MutationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	query := `SELECT ` + mutationColumns + ` FROM sync_queue WHERE workspace_id = ?`
	args := []any{workspaceID}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, st := range statuses {
			placeholders[i] = "?"
			args = append(args, string(st))
		}
		query += ` AND status IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY created_at ASC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mutations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.MutationRecord
	for rows.Next() {
		rec, err := scanMutation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mutations: %w", err)
	}
	return result, nil
}

// GetMutation returns single record by id
func (s *Storage) GetMutation(ctx context.Context, id string) (*models.MutationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `SELECT `+mutationColumns+` FROM sync_queue WHERE id = ?`, id)
	return scanMutation(row)
}

func scanMutation(row rowScanner) (*models.MutationRecord, error) {
	var (
		rec         models.MutationRecord
		op, status  string
		data        string
		createdAt   int64
		lastAttempt sql.NullInt64
		lastError   sql.NullString
	)

	err := row.Scan(&rec.ID, &rec.WorkspaceID, &op, &rec.EntityTable, &rec.EntityID, &data,
		&createdAt, &rec.Attempts, &lastAttempt, &lastError, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMutationNotFound
		}
		return nil, fmt.Errorf("failed to scan mutation: %w", err)
	}

	rec.Operation = models.Operation(op)
	rec.Status = models.MutationStatus(status)
	rec.Payload = []byte(data)
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	if lastAttempt.Valid {
		t := time.Unix(0, lastAttempt.Int64).UTC()
		rec.LastAttemptAt = &t
	}
	if lastError.Valid {
		e := lastError.String
		rec.LastError = &e
	}
	return &rec, nil
}

// MarkCompleted moves pending record to completed.
// Успешная попытка тоже учитывается в attempts.
func (s *Storage) MarkCompleted(ctx context.Context, id string) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.transition(ctx, tx, id, models.StatusCompleted, nil)
	})
}

// MarkFailed moves pending record to failed and stores the error
func (s *Storage) MarkFailed(ctx context.Context, id, errMsg string) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.transition(ctx, tx, id, models.StatusFailed, &errMsg)
	})
}

func (s *Storage) transition(ctx context.Context, tx *sql.Tx, id string, to models.MutationStatus, errMsg *string) error {
	now := s.now().UTC().UnixNano()

	var (
		res sql.Result
		err error
	)
	if errMsg != nil {
		res, err = tx.ExecContext(ctx,
			`UPDATE sync_queue SET status = ?, last_error = ?, updated_at = ? WHERE id = ? AND status = ?`,
			string(to), *errMsg, now, id, string(models.StatusPending))
	} else {
		res, err = tx.ExecContext(ctx, `
			UPDATE sync_queue
			SET status = ?, attempts = attempts + 1, last_attempt = ?, updated_at = ?
			WHERE id = ? AND status = ?
		`, string(to), now, now, id, string(models.StatusPending))
	}
	if err != nil {
		return fmt.Errorf("failed to update mutation status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return notPendingOrMissing(ctx, tx, id)
	}
	return nil
}

// notPendingOrMissing различает отсутствующую и уже завершенную запись
func notPendingOrMissing(ctx context.Context, tx *sql.Tx, id string) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sync_queue WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrMutationNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check mutation: %w", err)
	}
	return storage.ErrMutationNotPending
}

// RecordAttempt increments attempts of pending record; at maxAttempts it becomes failed
func (s *Storage) RecordAttempt(ctx context.Context, id, errMsg string, maxAttempts int) (*models.MutationRecord, error) {
	var rec *models.MutationRecord

	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := scanMutation(tx.QueryRowContext(ctx,
			`SELECT `+mutationColumns+` FROM sync_queue WHERE id = ?`, id))
		if err != nil {
			return err
		}
		if current.Status != models.StatusPending {
			return storage.ErrMutationNotPending
		}

		now := s.now().UTC()
		current.Attempts++
		current.LastAttemptAt = &now
		current.LastError = &errMsg
		if maxAttempts > 0 && current.Attempts >= maxAttempts {
			current.Status = models.StatusFailed
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE sync_queue
			SET attempts = ?, last_attempt = ?, last_error = ?, status = ?, updated_at = ?
			WHERE id = ?
		`, current.Attempts, now.UnixNano(), errMsg, string(current.Status), now.UnixNano(), id)
		if err != nil {
			return fmt.Errorf("failed to record attempt: %w", err)
		}

		rec = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CountsByStatus returns number of records per status for workspace
func (s *Storage) CountsByStatus(ctx context.Context, workspaceID string) (models.StatusCounts, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var counts models.StatusCounts

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM sync_queue WHERE workspace_id = ? GROUP BY status`, workspaceID)
	if err != nil {
		return counts, fmt.Errorf("failed to count mutations: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return counts, fmt.Errorf("failed to scan count: %w", err)
		}
		switch models.MutationStatus(status) {
		case models.StatusPending:
			counts.Pending = n
		case models.StatusCompleted:
			counts.Completed = n
		case models.StatusFailed:
			counts.Failed = n
		}
	}
	if err := rows.Err(); err != nil {
		return counts, fmt.Errorf("failed to iterate counts: %w", err)
	}
	return counts, nil
}

// ClearAll removes every mutation record and every domain row of workspace
func (s *Storage) ClearAll(ctx context.Context, workspaceID string) error {
	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sync_queue WHERE workspace_id = ?`, workspaceID); err != nil {
			return fmt.Errorf("failed to clear sync queue: %w", err)
		}
		for _, table := range models.Tables() {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE team_id = ?`, workspaceID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}
