package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tradetrack/internal/crypto"
	"github.com/iudanet/tradetrack/internal/models"
	"github.com/iudanet/tradetrack/internal/server/storage"
	"github.com/iudanet/tradetrack/internal/validation"
	"github.com/iudanet/tradetrack/pkg/api"
)

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	tokenStorage storage.TokenStorage
	now          func() time.Time
	jwtConfig    JWTConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, tokenStorage storage.TokenStorage, jwtConfig JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		userStorage:  userStorage,
		tokenStorage: tokenStorage,
		jwtConfig:    jwtConfig,
		now:          time.Now,
	}
}

// Register обрабатывает POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendError(w, http.StatusBadRequest, api.CodeValidation, "invalid request body")
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		h.logger.WarnContext(ctx, "invalid username", slog.String("username", req.Username), slog.Any("error", err))
		h.sendError(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	if req.AuthKeyHash == "" {
		h.sendError(w, http.StatusBadRequest, api.CodeValidation, "auth_key_hash is required")
		return
	}
	if req.PublicSalt == "" {
		h.sendError(w, http.StatusBadRequest, api.CodeValidation, "public_salt is required")
		return
	}

	user := &models.User{
		ID:          uuid.New().String(),
		Username:    req.Username,
		AuthKeyHash: req.AuthKeyHash,
		PublicSalt:  req.PublicSalt,
		CreatedAt:   h.now(),
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			h.sendError(w, http.StatusConflict, api.CodeConflict, "username already taken")
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", req.Username),
		slog.String("user_id", user.ID))

	WriteJSON(w, h.logger, api.RegisterResponse{
		UserID:  user.ID,
		Message: "User registered successfully",
	}, http.StatusCreated)
}

// GetSalt обрабатывает GET /api/v1/auth/salt/{username}
func (h *AuthHandler) GetSalt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := r.PathValue("username")
	if err := validation.ValidateUsername(username); err != nil {
		h.sendError(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	user, err := h.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "user not found", slog.String("username", username))
			h.sendError(w, http.StatusNotFound, api.CodeNotFound, "user not found")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return
	}

	WriteJSON(w, h.logger, api.SaltResponse{PublicSalt: user.PublicSalt}, http.StatusOK)
}

// Login обрабатывает POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendError(w, http.StatusBadRequest, api.CodeValidation, "invalid request body")
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		h.sendError(w, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}
	if req.AuthKeyHash == "" {
		h.sendError(w, http.StatusBadRequest, api.CodeValidation, "auth_key_hash is required")
		return
	}

	user, err := h.userStorage.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", req.Username))
			h.sendError(w, http.StatusUnauthorized, api.CodeAuth, "invalid credentials")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return
	}

	if !crypto.EqualHashes(user.AuthKeyHash, req.AuthKeyHash) {
		h.logger.WarnContext(ctx, "login failed: invalid auth key", slog.String("username", req.Username))
		h.sendError(w, http.StatusUnauthorized, api.CodeAuth, "invalid credentials")
		return
	}

	resp, ok := h.issueTokens(w, r, user)
	if !ok {
		return
	}

	if err := h.userStorage.UpdateLastLogin(ctx, user.ID, h.now()); err != nil {
		// не критично, вход уже состоялся
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", req.Username),
		slog.String("user_id", user.ID))

	WriteJSON(w, h.logger, resp, http.StatusOK)
}

// Refresh обрабатывает POST /api/v1/auth/refresh.
// Старый refresh token отзывается, клиент получает новую пару.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		h.sendError(w, http.StatusUnauthorized, api.CodeAuth, "refresh token is required")
		return
	}

	tokenHash := crypto.HashToken(req.RefreshToken)
	storedToken, err := h.tokenStorage.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			h.logger.WarnContext(ctx, "refresh token not found")
			h.sendError(w, http.StatusUnauthorized, api.CodeAuth, "invalid refresh token")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get refresh token", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return
	}

	if h.now().After(storedToken.ExpiresAt) {
		h.logger.WarnContext(ctx, "refresh token expired", slog.String("user_id", storedToken.UserID))
		_ = h.tokenStorage.DeleteRefreshToken(ctx, tokenHash)
		h.sendError(w, http.StatusUnauthorized, api.CodeAuth, "refresh token expired")
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, storedToken.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.sendError(w, http.StatusUnauthorized, api.CodeAuth, "invalid refresh token")
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return
	}

	// второй запрос с тем же токеном получит 401
	if err := h.tokenStorage.DeleteRefreshToken(ctx, tokenHash); err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			h.sendError(w, http.StatusUnauthorized, api.CodeAuth, "invalid refresh token")
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete old refresh token", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return
	}

	resp, ok := h.issueTokens(w, r, user)
	if !ok {
		return
	}

	h.logger.InfoContext(ctx, "tokens refreshed successfully", slog.String("user_id", user.ID))
	WriteJSON(w, h.logger, resp, http.StatusOK)
}

// Logout обрабатывает POST /api/v1/auth/logout (за AuthMiddleware).
// Если в теле передан refresh token, отзывается только он, иначе все токены пользователя.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.sendError(w, http.StatusUnauthorized, api.CodeAuth, "unauthorized")
		return
	}

	var req api.LogoutRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.sendError(w, http.StatusBadRequest, api.CodeValidation, "invalid request body")
			return
		}
	}

	if req.RefreshToken != "" {
		tokenHash := crypto.HashToken(req.RefreshToken)
		stored, err := h.tokenStorage.GetRefreshToken(ctx, tokenHash)
		switch {
		case errors.Is(err, storage.ErrTokenNotFound):
			// уже отозван
		case err != nil:
			h.logger.ErrorContext(ctx, "failed to get refresh token", slog.Any("error", err))
			h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
			return
		case stored.UserID != userID:
			h.sendError(w, http.StatusForbidden, api.CodeForbidden, "refresh token belongs to another user")
			return
		default:
			if err := h.tokenStorage.DeleteRefreshToken(ctx, tokenHash); err != nil && !errors.Is(err, storage.ErrTokenNotFound) {
				h.logger.ErrorContext(ctx, "failed to delete refresh token", slog.Any("error", err))
				h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
				return
			}
		}
		h.logger.InfoContext(ctx, "user logged out", slog.String("user_id", userID))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	deletedCount, err := h.tokenStorage.DeleteUserTokens(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to delete user tokens", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "user logged out from all sessions",
		slog.String("user_id", userID),
		slog.Int("tokens_deleted", deletedCount))

	w.WriteHeader(http.StatusNoContent)
}

// issueTokens выпускает access и refresh токены и сохраняет хеш refresh токена.
// При ошибке ответ уже отправлен и ok=false.
func (h *AuthHandler) issueTokens(w http.ResponseWriter, r *http.Request, user *models.User) (api.TokenResponse, bool) {
	ctx := r.Context()

	accessToken, expiresIn, err := GenerateAccessToken(h.jwtConfig, user.ID, user.Username)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return api.TokenResponse{}, false
	}

	refreshToken, expiresAt, err := GenerateRefreshToken(h.jwtConfig)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate refresh token", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return api.TokenResponse{}, false
	}

	token := &models.RefreshToken{
		TokenHash: crypto.HashToken(refreshToken),
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: h.now(),
	}
	if err := h.tokenStorage.SaveRefreshToken(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to save refresh token", slog.Any("error", err))
		h.sendError(w, http.StatusInternalServerError, api.CodeInternal, "internal server error")
		return api.TokenResponse{}, false
	}

	return api.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		ExpiresIn:    expiresIn,
	}, true
}

func (h *AuthHandler) sendError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteError(w, h.logger, statusCode, code, message)
}
