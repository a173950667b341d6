package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/tradetrack/internal/server/handlers"
	"github.com/iudanet/tradetrack/pkg/api"
)

// RecoveryMiddleware перехватывает panic, логирует стек вызовов
// и возвращает 500 без подробностей
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				// http.ErrAbortHandler - штатный способ оборвать ответ
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.Error("Panic recovered",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"stack", string(debug.Stack()),
				)

				handlers.WriteError(w, logger, http.StatusInternalServerError, api.CodeInternal, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
