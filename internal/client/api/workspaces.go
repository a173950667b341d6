package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/tradetrack/pkg/api"
)

// CreateWorkspace создает рабочее пространство, текущий пользователь становится владельцем
func (c *Client) CreateWorkspace(ctx context.Context, accessToken string, req api.CreateWorkspaceRequest) (*api.Workspace, error) {
	var resp api.Workspace
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/workspaces", authHeaders(accessToken, ""), req, &resp); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &resp, nil
}

// ListWorkspaces возвращает рабочие пространства, в которых состоит пользователь
func (c *Client) ListWorkspaces(ctx context.Context, accessToken string) ([]api.Workspace, error) {
	var resp api.ListWorkspacesResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/workspaces", authHeaders(accessToken, ""), nil, &resp); err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return resp.Workspaces, nil
}
