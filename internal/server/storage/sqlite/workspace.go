package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/tradetrack/internal/models"
	"github.com/iudanet/tradetrack/internal/server/storage"
)

// CreateWorkspace creates a workspace and adds its owner as a member
func (s *Storage) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO workspaces (id, name, owner_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			ws.ID, ws.Name, ws.OwnerID, toMillis(ws.CreatedAt), toMillis(ws.UpdatedAt),
		)
		if err != nil {
			if isConstraint(err) {
				return storage.ErrWorkspaceExists
			}
			return fmt.Errorf("failed to insert workspace: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
			VALUES (?, ?, ?, ?)`,
			ws.ID, ws.OwnerID, models.RoleOwner, toMillis(ws.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to add workspace owner: %w", err)
		}
		return nil
	})
}

// GetWorkspace retrieves workspace by ID
func (s *Storage) GetWorkspace(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	ws := &models.Workspace{}
	var createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM workspaces WHERE id = ?`, workspaceID,
	).Scan(&ws.ID, &ws.Name, &ws.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	ws.CreatedAt = fromMillis(createdAt)
	ws.UpdatedAt = fromMillis(updatedAt)
	return ws, nil
}

// ListUserWorkspaces returns workspaces the user is a member of
func (s *Storage) ListUserWorkspaces(ctx context.Context, userID string) ([]*models.Workspace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w.id, w.name, w.owner_id, w.created_at, w.updated_at, m.role
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = ?
		ORDER BY w.created_at, w.id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	workspaces := make([]*models.Workspace, 0)
	for rows.Next() {
		ws := &models.Workspace{}
		var createdAt, updatedAt int64
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.OwnerID, &createdAt, &updatedAt, &ws.Role); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		ws.CreatedAt = fromMillis(createdAt)
		ws.UpdatedAt = fromMillis(updatedAt)
		workspaces = append(workspaces, ws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return workspaces, nil
}

// MemberRole returns the role of the user in the workspace
func (s *Storage) MemberRole(ctx context.Context, workspaceID, userID string) (string, error) {
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT role FROM workspace_members
		WHERE workspace_id = ? AND user_id = ?`, workspaceID, userID,
	).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotMember
		}
		return "", fmt.Errorf("failed to get member role: %w", err)
	}
	return role, nil
}

// AddMember adds user to the workspace or changes the role of an existing member
func (s *Storage) AddMember(ctx context.Context, workspaceID, userID, role string) error {
	if _, err := s.GetWorkspace(ctx, workspaceID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (workspace_id, user_id) DO UPDATE SET role = excluded.role`,
		workspaceID, userID, role, toMillis(s.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}
