package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/tradetrack/internal/models"
	"github.com/iudanet/tradetrack/internal/server/storage"
	"github.com/iudanet/tradetrack/internal/validation"
	"github.com/iudanet/tradetrack/pkg/api"
)

// maxRecordSize ограничивает тело запроса с одной записью
const maxRecordSize = 1 << 20

// immutableColumns не меняются при обновлении строки
var immutableColumns = map[string]struct{}{
	models.ColumnID:        {},
	models.ColumnTeamID:    {},
	models.ColumnCreatedBy: {},
	models.ColumnCreatedAt: {},
}

// TablesHandler applies client changes to domain tables of a workspace.
// Rows are validated against the same table schema the client uses.
// Updates are applied as they arrive, without a version check.
type TablesHandler struct {
	logger  *slog.Logger
	records storage.RecordStorage
	now     func() time.Time
}

// NewTablesHandler создает handler доменных таблиц
func NewTablesHandler(logger *slog.Logger, records storage.RecordStorage) *TablesHandler {
	return &TablesHandler{
		logger:  logger,
		records: records,
		now:     time.Now,
	}
}

// Insert обрабатывает POST /api/v1/tables/{table}
func (h *TablesHandler) Insert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	payload, ok := h.decode(w, r, scope.schema)
	if !ok {
		return
	}

	id, _ := payload[models.ColumnID].(string)
	if err := validation.ValidateRecordID(id); err != nil {
		WriteError(w, h.logger, http.StatusUnprocessableEntity, api.CodeValidation, err.Error())
		return
	}

	// строка принадлежит пространству из заголовка, а не из тела
	payload[models.ColumnTeamID] = scope.workspaceID
	if scope.schema.HasUpdatedAt {
		if v, _ := payload[models.ColumnCreatedBy].(string); v == "" {
			payload[models.ColumnCreatedBy] = scope.userID
		}
	}

	if err := scope.schema.ValidateCreate(payload); err != nil {
		WriteError(w, h.logger, http.StatusUnprocessableEntity, api.CodeValidation, err.Error())
		return
	}

	if scope.schema.Parent != "" {
		parentID, _ := payload[scope.schema.ParentKey].(string)
		if _, err := h.records.GetRecord(ctx, scope.workspaceID, scope.schema.Parent, parentID); err != nil {
			if errors.Is(err, storage.ErrRecordNotFound) {
				WriteError(w, h.logger, http.StatusUnprocessableEntity, api.CodeValidation,
					fmt.Sprintf("%s %q does not exist", scope.schema.ParentKey, parentID))
				return
			}
			h.internalError(w, r, "failed to get parent record", err)
			return
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.internalError(w, r, "failed to marshal record", err)
		return
	}

	now := h.now()
	rec := &models.StoredRecord{
		ID:          id,
		WorkspaceID: scope.workspaceID,
		Table:       scope.schema.Name,
		Data:        data,
		CreatedAt:   now,
		UpdatedAt:   rowUpdatedAt(payload, now),
	}

	if err := h.records.InsertRecord(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrRecordExists) {
			h.insertExisting(w, r, scope, id)
			return
		}
		h.internalError(w, r, "failed to insert record", err)
		return
	}

	h.logger.DebugContext(ctx, "record inserted",
		slog.String("workspace_id", scope.workspaceID),
		slog.String("table", scope.schema.Name),
		slog.String("id", id))

	w.WriteHeader(http.StatusCreated)
}

// insertExisting отвечает на вставку строки, id которой уже занят.
// Повторная доставка в то же пространство считается успешной: клиент мог
// не получить ответ на первую вставку.
func (h *TablesHandler) insertExisting(w http.ResponseWriter, r *http.Request, scope tableScope, id string) {
	ctx := r.Context()

	_, err := h.records.GetRecord(ctx, scope.workspaceID, scope.schema.Name, id)
	switch {
	case err == nil:
		h.logger.InfoContext(ctx, "record redelivered",
			slog.String("workspace_id", scope.workspaceID),
			slog.String("table", scope.schema.Name),
			slog.String("id", id))
		w.WriteHeader(http.StatusOK)
	case errors.Is(err, storage.ErrRecordNotFound):
		h.logger.WarnContext(ctx, "record already exists",
			slog.String("table", scope.schema.Name),
			slog.String("id", id))
		WriteError(w, h.logger, http.StatusConflict, api.CodeConflict, "record already exists")
	default:
		h.internalError(w, r, "failed to get existing record", err)
	}
}

// Update обрабатывает PATCH /api/v1/tables/{table}/{id}.
// Переданные поля накладываются на строку; последний записавший побеждает.
func (h *TablesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	payload, ok := h.decode(w, r, scope.schema)
	if !ok {
		return
	}

	if v, present := payload[models.ColumnID]; present && v != id {
		WriteError(w, h.logger, http.StatusUnprocessableEntity, api.CodeValidation, "id in body does not match path")
		return
	}

	current, err := h.records.GetRecord(ctx, scope.workspaceID, scope.schema.Name, id)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			WriteError(w, h.logger, http.StatusNotFound, api.CodeNotFound, "record not found")
			return
		}
		h.internalError(w, r, "failed to get record", err)
		return
	}

	var row models.Payload
	if err := json.Unmarshal(current.Data, &row); err != nil {
		h.internalError(w, r, "failed to decode stored record", err)
		return
	}

	for k, v := range payload {
		if _, ok := immutableColumns[k]; ok {
			continue
		}
		row[k] = v
	}

	data, err := json.Marshal(row)
	if err != nil {
		h.internalError(w, r, "failed to marshal record", err)
		return
	}
	current.Data = data
	current.UpdatedAt = rowUpdatedAt(payload, h.now())

	if err := h.records.UpdateRecord(ctx, current); err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			WriteError(w, h.logger, http.StatusNotFound, api.CodeNotFound, "record not found")
			return
		}
		h.internalError(w, r, "failed to update record", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete обрабатывает DELETE /api/v1/tables/{table}/{id}. Повторное удаление не ошибка.
func (h *TablesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	if err := h.records.DeleteRecord(r.Context(), scope.workspaceID, scope.schema.Name, id); err != nil {
		h.internalError(w, r, "failed to delete record", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List обрабатывает GET /api/v1/tables/{table}
func (h *TablesHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}

	list, err := h.records.ListRecords(r.Context(), scope.workspaceID, scope.schema.Name)
	if err != nil {
		h.internalError(w, r, "failed to list records", err)
		return
	}

	resp := api.ListRecordsResponse{Records: make([]api.Record, 0, len(list))}
	for _, rec := range list {
		resp.Records = append(resp.Records, api.Record{
			ID:        rec.ID,
			Table:     rec.Table,
			Data:      json.RawMessage(rec.Data),
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
		})
	}

	WriteJSON(w, h.logger, resp, http.StatusOK)
}

// tableScope - таблица и пространство, к которым относится запрос
type tableScope struct {
	schema      models.TableSchema
	workspaceID string
	userID      string
}

func (h *TablesHandler) scope(w http.ResponseWriter, r *http.Request) (tableScope, bool) {
	userID, ok := GetUserID(r.Context())
	if !ok {
		WriteError(w, h.logger, http.StatusUnauthorized, api.CodeAuth, "unauthorized")
		return tableScope{}, false
	}
	workspaceID, ok := GetWorkspaceID(r.Context())
	if !ok {
		WriteError(w, h.logger, http.StatusBadRequest, api.CodeValidation, api.WorkspaceHeader+" header is required")
		return tableScope{}, false
	}

	schema, err := models.LookupTable(r.PathValue("table"))
	if err != nil {
		WriteError(w, h.logger, http.StatusNotFound, api.CodeNotFound, err.Error())
		return tableScope{}, false
	}

	return tableScope{schema: schema, workspaceID: workspaceID, userID: userID}, true
}

func (h *TablesHandler) decode(w http.ResponseWriter, r *http.Request, schema models.TableSchema) (models.Payload, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRecordSize))
	if err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, api.CodeValidation, "failed to read request body")
		return nil, false
	}

	payload, err := models.DecodePayload(schema.Name, body)
	if err != nil {
		WriteError(w, h.logger, http.StatusUnprocessableEntity, api.CodeValidation, err.Error())
		return nil, false
	}
	return payload, true
}

func (h *TablesHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	WriteError(w, h.logger, http.StatusInternalServerError, api.CodeInternal, "internal server error")
}

// rowUpdatedAt берет updated_at из строки, если клиент его передал
func rowUpdatedAt(p models.Payload, fallback time.Time) time.Time {
	s, _ := p[models.ColumnUpdatedAt].(string)
	if s == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fallback
	}
	return t
}
