package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iudanet/tradetrack/internal/client/storage"
	"github.com/iudanet/tradetrack/internal/models"
)

// Apply writes domain rows and their mutation records in one transaction.
// Запись журнала вставляется первой, затем доменная строка.
func (s *Storage) Apply(ctx context.Context, workspaceID string, changes ...storage.Change) ([]models.MutationRecord, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("workspace id is required")
	}
	if len(changes) == 0 {
		return nil, nil
	}

	records := make([]models.MutationRecord, 0, len(changes))
	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, ch := range changes {
			payload, body, err := normalizeChange(workspaceID, ch)
			if err != nil {
				return err
			}

			rec, err := s.insertMutation(ctx, tx, workspaceID, ch.Operation, ch.Table, ch.EntityID, body)
			if err != nil {
				return err
			}

			if err := applyDomainWrite(ctx, tx, workspaceID, ch, payload); err != nil {
				return err
			}
			records = append(records, *rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// normalizeChange проверяет payload по схеме таблицы и возвращает его вместе
// с сериализованной формой, которая уходит в журнал.
func normalizeChange(workspaceID string, ch storage.Change) (models.Payload, []byte, error) {
	schema, err := models.LookupTable(ch.Table)
	if err != nil {
		return nil, nil, err
	}
	if ch.EntityID == "" {
		return nil, nil, fmt.Errorf("%w: %s: entity id is required", models.ErrInvalidPayload, ch.Table)
	}

	if ch.Operation == models.OperationDelete {
		return nil, []byte("{}"), nil
	}

	raw := ch.Payload
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	payload, err := models.DecodePayload(ch.Table, raw)
	if err != nil {
		return nil, nil, err
	}

	if id, ok := payload[models.ColumnID]; ok && id != ch.EntityID {
		return nil, nil, fmt.Errorf("%w: %s: payload id %v does not match entity id %s",
			models.ErrInvalidPayload, ch.Table, id, ch.EntityID)
	}
	if team, ok := payload[models.ColumnTeamID]; ok && team != workspaceID {
		return nil, nil, fmt.Errorf("%w: %s: record belongs to another workspace", models.ErrInvalidPayload, ch.Table)
	}

	switch ch.Operation {
	case models.OperationCreate:
		payload[models.ColumnID] = ch.EntityID
		payload[models.ColumnTeamID] = workspaceID
		if err := schema.ValidateCreate(payload); err != nil {
			return nil, nil, err
		}
	case models.OperationUpdate:
		delete(payload, models.ColumnID)
		delete(payload, models.ColumnTeamID)
		if len(payload) == 0 {
			return nil, nil, fmt.Errorf("%w: %s: nothing to update", models.ErrInvalidPayload, ch.Table)
		}
	default:
		return nil, nil, fmt.Errorf("unknown operation %q", ch.Operation)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return payload, body, nil
}

func applyDomainWrite(ctx context.Context, tx *sql.Tx, workspaceID string, ch storage.Change, payload models.Payload) error {
	switch ch.Operation {
	case models.OperationCreate:
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+ch.Table+` WHERE id = ?`, ch.EntityID).Scan(&exists)
		if err == nil {
			return fmt.Errorf("%w: %s/%s", storage.ErrRecordExists, ch.Table, ch.EntityID)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check record: %w", err)
		}

		cols := sortedKeys(payload)
		args := make([]any, 0, len(cols))
		for _, c := range cols {
			args = append(args, sqlValue(payload[c]))
		}
		query := fmt.Sprintf(`INSERT INTO %s (%s, is_synced) VALUES (%s, 0)`,
			ch.Table, strings.Join(cols, ", "), placeholders(len(cols)))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert %s: %w", ch.Table, err)
		}
		return nil

	case models.OperationUpdate:
		cols := sortedKeys(payload)
		sets := make([]string, 0, len(cols)+1)
		args := make([]any, 0, len(cols)+2)
		for _, c := range cols {
			sets = append(sets, c+" = ?")
			args = append(args, sqlValue(payload[c]))
		}
		sets = append(sets, "is_synced = 0")
		args = append(args, ch.EntityID, workspaceID)

		query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ? AND team_id = ?`, ch.Table, strings.Join(sets, ", "))
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", ch.Table, err)
		}
		return requireAffected(res, ch.Table, ch.EntityID)

	case models.OperationDelete:
		res, err := tx.ExecContext(ctx,
			`DELETE FROM `+ch.Table+` WHERE id = ? AND team_id = ?`, ch.EntityID, workspaceID)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", ch.Table, err)
		}
		return requireAffected(res, ch.Table, ch.EntityID)
	}
	return fmt.Errorf("unknown operation %q", ch.Operation)
}

func requireAffected(res sql.Result, table, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s/%s", storage.ErrRecordNotFound, table, id)
	}
	return nil
}

// MarkSynced sets is_synced flag on the domain row.
// Флаг не ставится, пока у строки есть незавершенные или проваленные изменения.
func (s *Storage) MarkSynced(ctx context.Context, workspaceID, table, entityID string) error {
	if _, err := models.LookupTable(table); err != nil {
		return err
	}

	return s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE `+table+` SET is_synced = 1
			WHERE id = ? AND team_id = ?
			AND NOT EXISTS (
				SELECT 1 FROM sync_queue
				WHERE workspace_id = ? AND table_name = ? AND record_id = ? AND status != ?
			)
		`, entityID, workspaceID, workspaceID, table, entityID, string(models.StatusCompleted))
		if err != nil {
			return fmt.Errorf("failed to mark %s synced: %w", table, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected > 0 {
			return nil
		}

		var exists int
		err = tx.QueryRowContext(ctx,
			`SELECT 1 FROM `+table+` WHERE id = ? AND team_id = ?`, entityID, workspaceID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s/%s", storage.ErrRecordNotFound, table, entityID)
		}
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", table, err)
		}
		return nil
	})
}

// GetRecord returns single domain row
func (s *Storage) GetRecord(ctx context.Context, workspaceID, table, id string) (*models.LocalRecord, error) {
	schema, err := models.LookupTable(table)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cols := schema.SortedColumns()
	query := fmt.Sprintf(`SELECT %s, is_synced FROM %s WHERE id = ? AND team_id = ?`, strings.Join(cols, ", "), table)
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id, workspaceID), schema, cols)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", storage.ErrRecordNotFound, table, id)
	}
	return rec, err
}

// ListRecords returns all rows of table for workspace ordered by created_at
func (s *Storage) ListRecords(ctx context.Context, workspaceID, table string) ([]models.LocalRecord, error) {
	schema, err := models.LookupTable(table)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	cols := schema.SortedColumns()
	query := fmt.Sprintf(`SELECT %s, is_synced FROM %s WHERE team_id = ? ORDER BY created_at ASC, rowid ASC`,
		strings.Join(cols, ", "), table)

	rows, err := s.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.LocalRecord
	for rows.Next() {
		rec, err := scanRecord(rows, schema, cols)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return result, nil
}

func scanRecord(row rowScanner, schema models.TableSchema, cols []string) (*models.LocalRecord, error) {
	values := make([]any, len(cols))
	dest := make([]any, len(cols)+1)
	for i := range values {
		dest[i] = &values[i]
	}
	var synced int
	dest[len(cols)] = &synced

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan %s: %w", schema.Name, err)
	}

	rec := &models.LocalRecord{
		Table:    schema.Name,
		Fields:   make(models.Payload, len(cols)),
		IsSynced: synced == 1,
	}
	for i, c := range cols {
		v := fromSQL(schema.Columns[c], values[i])
		if v == nil {
			continue
		}
		rec.Fields[c] = v
	}
	if id, ok := rec.Fields[models.ColumnID].(string); ok {
		rec.ID = id
	}
	return rec, nil
}

// sqlValue переводит значение payload в значение для SQLite
func sqlValue(v any) any {
	if b, ok := v.(bool); ok {
		return boolToInt(b)
	}
	return v
}

// fromSQL переводит значение из SQLite в тип колонки схемы
func fromSQL(colType models.ColumnType, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		v = string(val)
	}

	switch colType {
	case models.ColumnBool:
		switch val := v.(type) {
		case int64:
			return val != 0
		case float64:
			return val != 0
		}
	case models.ColumnReal:
		if i, ok := v.(int64); ok {
			return float64(i)
		}
	}
	return v
}

func sortedKeys(p models.Payload) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
