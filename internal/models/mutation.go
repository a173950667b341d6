package models

import (
	"fmt"
	"time"
)

// Operation - тип локального изменения, которое нужно применить на сервере
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// ParseOperation разбирает строковое представление операции
func ParseOperation(s string) (Operation, error) {
	switch op := Operation(s); op {
	case OperationCreate, OperationUpdate, OperationDelete:
		return op, nil
	default:
		return "", fmt.Errorf("unknown operation %q", s)
	}
}

// MutationStatus - статус записи в журнале изменений
type MutationStatus string

const (
	StatusPending   MutationStatus = "pending"
	StatusCompleted MutationStatus = "completed"
	StatusFailed    MutationStatus = "failed"
)

// MaxAttempts - после стольких неудачных попыток запись переходит в failed
const MaxAttempts = 5

// MutationRecord представляет одно локальное изменение, ожидающее отправки на сервер.
// Payload хранится как непрозрачные байты и декодируется только при применении.
type MutationRecord struct {
	CreatedAt     time.Time      `json:"created_at"`
	LastAttemptAt *time.Time     `json:"last_attempt_at,omitempty"`
	LastError     *string        `json:"last_error,omitempty"`
	ID            string         `json:"id"`
	WorkspaceID   string         `json:"workspace_id"`
	Operation     Operation      `json:"operation"`
	EntityTable   string         `json:"entity_table"`
	EntityID      string         `json:"entity_id"`
	Status        MutationStatus `json:"status"`
	Payload       []byte         `json:"payload"`
	Attempts      int            `json:"attempts"`
}

// IsTerminal возвращает true для completed и failed
func (m *MutationRecord) IsTerminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusFailed
}

// StatusCounts - количество записей журнала по статусам
type StatusCounts struct {
	Pending   int `json:"pending" yaml:"pending"`
	Completed int `json:"completed" yaml:"completed"`
	Failed    int `json:"failed" yaml:"failed"`
}

// Total возвращает общее количество записей
func (c StatusCounts) Total() int {
	return c.Pending + c.Completed + c.Failed
}
