package storage

import (
	"context"

	"github.com/iudanet/tradetrack/internal/models"
)

// WorkspaceStorage defines interface for workspaces and their members
type WorkspaceStorage interface {
	// CreateWorkspace creates a workspace and adds its owner as a member
	// Returns ErrWorkspaceExists if id is already taken
	CreateWorkspace(ctx context.Context, ws *models.Workspace) error

	// GetWorkspace retrieves workspace by ID
	// Returns ErrWorkspaceNotFound if workspace doesn't exist
	GetWorkspace(ctx context.Context, workspaceID string) (*models.Workspace, error)

	// ListUserWorkspaces returns workspaces the user is a member of, with Role filled in
	ListUserWorkspaces(ctx context.Context, userID string) ([]*models.Workspace, error)

	// MemberRole returns the role of the user in the workspace
	// Returns ErrNotMember if the user is not a member
	MemberRole(ctx context.Context, workspaceID, userID string) (string, error)

	// AddMember adds user to the workspace with the given role (or changes the role)
	// Returns ErrWorkspaceNotFound if workspace doesn't exist
	AddMember(ctx context.Context, workspaceID, userID, role string) error
}
