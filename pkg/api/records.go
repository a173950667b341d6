package api

import (
	"encoding/json"
	"time"
)

// WorkspaceHeader - заголовок, в котором клиент передает текущее рабочее пространство
const WorkspaceHeader = "X-Workspace-ID"

// Record представляет строку доменной таблицы на сервере
type Record struct {
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ID        string          `json:"id"`
	Table     string          `json:"table"`
	Data      json.RawMessage `json:"data"`
}

// ListRecordsResponse представляет ответ со списком записей таблицы
type ListRecordsResponse struct {
	Records []Record `json:"records"`
}

// CreateWorkspaceRequest представляет запрос на создание рабочего пространства
type CreateWorkspaceRequest struct {
	ID   string `json:"id,omitempty"` // клиент может сгенерировать id сам
	Name string `json:"name"`
}

// Workspace представляет рабочее пространство (команду)
type Workspace struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Role      string    `json:"role"`
}

// ListWorkspacesResponse представляет список рабочих пространств пользователя
type ListWorkspacesResponse struct {
	Workspaces []Workspace `json:"workspaces"`
}
