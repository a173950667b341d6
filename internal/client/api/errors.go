package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/iudanet/tradetrack/pkg/api"
)

// ErrorKind классифицирует ошибку удаленного вызова
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"    // транспорт: таймаут, обрыв, DNS
	KindAuth       ErrorKind = "auth"       // 401/403
	KindValidation ErrorKind = "validation" // 400/422
	KindConflict   ErrorKind = "conflict"   // 409
	KindNotFound   ErrorKind = "not_found"  // 404
	KindServer     ErrorKind = "server"     // 5xx, 429
)

// RemoteError - структурированная ошибка вызова сервера
type RemoteError struct {
	Err        error
	Kind       ErrorKind
	Message    string
	StatusCode int
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: server error (%d): %s", e.Kind, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: request failed with status %d", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind) + ": " + e.Message
	}
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// KindOf возвращает вид ошибки; пустую строку, если это не RemoteError
func KindOf(err error) ErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}

// IsNetwork сообщает, что запрос не дошел до сервера или ответ не был получен
func IsNetwork(err error) bool {
	return KindOf(err) == KindNetwork
}

// IsAuth сообщает, что сервер отверг учетные данные
func IsAuth(err error) bool {
	return KindOf(err) == KindAuth
}

// classifyStatus определяет вид ошибки по коду ответа и коду из тела
func classifyStatus(status int, code string) ErrorKind {
	switch code {
	case api.CodeValidation:
		return KindValidation
	case api.CodeConflict:
		return KindConflict
	case api.CodeNotFound:
		return KindNotFound
	case api.CodeAuth, api.CodeForbidden:
		return KindAuth
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}
