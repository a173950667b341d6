package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/tradetrack/pkg/api"
)

// WriteJSON отправляет JSON ответ
func WriteJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет JSON ответ с ошибкой. code - машинно-читаемый код из pkg/api,
// по нему клиент решает, повторять ли запрос.
func WriteError(w http.ResponseWriter, logger *slog.Logger, statusCode int, code, message string) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    code,
	}
	WriteJSON(w, logger, resp, statusCode)
}
