package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/tradetrack/internal/server/handlers"
	"github.com/iudanet/tradetrack/internal/server/storage"
	"github.com/iudanet/tradetrack/internal/validation"
	"github.com/iudanet/tradetrack/pkg/api"
)

// MembershipChecker возвращает роль пользователя в рабочем пространстве
type MembershipChecker interface {
	MemberRole(ctx context.Context, workspaceID, userID string) (string, error)
}

// WorkspaceMiddleware проверяет заголовок X-Workspace-ID и членство пользователя.
// Должен стоять после AuthMiddleware.
func WorkspaceMiddleware(logger *slog.Logger, members MembershipChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := handlers.GetUserID(r.Context())
			if !ok {
				handlers.WriteError(w, logger, http.StatusUnauthorized, api.CodeAuth, "unauthorized")
				return
			}

			workspaceID := r.Header.Get(api.WorkspaceHeader)
			if workspaceID == "" {
				handlers.WriteError(w, logger, http.StatusBadRequest, api.CodeValidation, api.WorkspaceHeader+" header is required")
				return
			}
			if err := validation.ValidateRecordID(workspaceID); err != nil {
				handlers.WriteError(w, logger, http.StatusBadRequest, api.CodeValidation, "invalid "+api.WorkspaceHeader)
				return
			}

			if _, err := members.MemberRole(r.Context(), workspaceID, userID); err != nil {
				if errors.Is(err, storage.ErrNotMember) {
					logger.Warn("Access to foreign workspace denied",
						"user_id", userID,
						"workspace_id", workspaceID)
					handlers.WriteError(w, logger, http.StatusForbidden, api.CodeForbidden, "not a member of the workspace")
					return
				}
				logger.Error("Failed to check workspace membership", "error", err)
				handlers.WriteError(w, logger, http.StatusInternalServerError, api.CodeInternal, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), handlers.WorkspaceIDKey, workspaceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
