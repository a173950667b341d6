package api

// Коды ошибок, которые сервер возвращает в поле ErrorResponse.Code.
// Клиент классифицирует ошибки удаленного применения по этим кодам.
const (
	CodeValidation = "validation"
	CodeConflict   = "conflict"
	CodeNotFound   = "not_found"
	CodeAuth       = "auth"
	CodeForbidden  = "forbidden"
	CodeInternal   = "internal"
)

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки (http status text)
	Message string `json:"message,omitempty"` // дополнительное сообщение
	Code    string `json:"code,omitempty"`    // машинно-читаемый код
}
