package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tradetrack/internal/models"
	"github.com/iudanet/tradetrack/internal/server/storage"
	"github.com/iudanet/tradetrack/internal/validation"
	"github.com/iudanet/tradetrack/pkg/api"
)

// WorkspaceHandler обрабатывает запросы к рабочим пространствам
type WorkspaceHandler struct {
	logger     *slog.Logger
	workspaces storage.WorkspaceStorage
	now        func() time.Time
}

// NewWorkspaceHandler создает handler рабочих пространств
func NewWorkspaceHandler(logger *slog.Logger, workspaces storage.WorkspaceStorage) *WorkspaceHandler {
	return &WorkspaceHandler{
		logger:     logger,
		workspaces: workspaces,
		now:        time.Now,
	}
}

// Create обрабатывает POST /api/v1/workspaces.
// Клиент может передать свой id; повторный запрос владельца с тем же id
// возвращает уже созданное пространство.
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(w, h.logger, http.StatusUnauthorized, api.CodeAuth, "unauthorized")
		return
	}

	var req api.CreateWorkspaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, api.CodeValidation, "invalid request body")
		return
	}

	if err := validation.ValidateWorkspaceName(req.Name); err != nil {
		WriteError(w, h.logger, http.StatusUnprocessableEntity, api.CodeValidation, err.Error())
		return
	}

	if req.ID == "" {
		req.ID = uuid.New().String()
	} else if err := validation.ValidateRecordID(req.ID); err != nil {
		WriteError(w, h.logger, http.StatusUnprocessableEntity, api.CodeValidation, err.Error())
		return
	}

	now := h.now()
	ws := &models.Workspace{
		ID:        req.ID,
		Name:      strings.TrimSpace(req.Name),
		OwnerID:   userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.workspaces.CreateWorkspace(ctx, ws); err != nil {
		if !errors.Is(err, storage.ErrWorkspaceExists) {
			h.logger.ErrorContext(ctx, "failed to create workspace", slog.Any("error", err))
			WriteError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "internal server error")
			return
		}

		existing, getErr := h.workspaces.GetWorkspace(ctx, req.ID)
		if getErr != nil || existing.OwnerID != userID {
			WriteError(w, h.logger, http.StatusConflict, api.CodeConflict, "workspace already exists")
			return
		}
		existing.Role = models.RoleOwner
		WriteJSON(w, h.logger, toAPIWorkspace(existing), http.StatusOK)
		return
	}

	h.logger.InfoContext(ctx, "workspace created",
		slog.String("workspace_id", ws.ID),
		slog.String("user_id", userID))

	ws.Role = models.RoleOwner
	WriteJSON(w, h.logger, toAPIWorkspace(ws), http.StatusCreated)
}

// List обрабатывает GET /api/v1/workspaces
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		WriteError(w, h.logger, http.StatusUnauthorized, api.CodeAuth, "unauthorized")
		return
	}

	list, err := h.workspaces.ListUserWorkspaces(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list workspaces", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return
	}

	resp := api.ListWorkspacesResponse{Workspaces: make([]api.Workspace, 0, len(list))}
	for _, ws := range list {
		resp.Workspaces = append(resp.Workspaces, toAPIWorkspace(ws))
	}

	WriteJSON(w, h.logger, resp, http.StatusOK)
}

func toAPIWorkspace(ws *models.Workspace) api.Workspace {
	return api.Workspace{
		ID:        ws.ID,
		Name:      ws.Name,
		OwnerID:   ws.OwnerID,
		Role:      ws.Role,
		CreatedAt: ws.CreatedAt,
	}
}
