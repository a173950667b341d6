package models

import "time"

// User представляет пользователя в системе
type User struct {
	ID          string     `json:"id"`            // UUID пользователя
	Username    string     `json:"username"`      // уникальный username
	AuthKeyHash string     `json:"auth_key_hash"` // SHA256 хеш auth_key
	PublicSalt  string     `json:"public_salt"`   // base64 encoded salt (32 bytes)
	CreatedAt   time.Time  `json:"created_at"`    // время создания
	LastLogin   *time.Time `json:"last_login"`    // время последнего входа
}

// RefreshToken представляет refresh token пользователя
type RefreshToken struct {
	UserID    string    `json:"user_id"`    // ID пользователя
	TokenHash string    `json:"token_hash"` // SHA256 хеш токена, сам токен не хранится
	ExpiresAt time.Time `json:"expires_at"` // время истечения
	CreatedAt time.Time `json:"created_at"` // время создания
}

// Роли участников рабочего пространства
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// Workspace представляет рабочее пространство (команду), в рамках которого
// разделены все доменные записи и журнал изменений.
type Workspace struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	// Role - роль текущего пользователя (заполняется при выборке списка)
	Role string `json:"role,omitempty"`
}

// StoredRecord - запись доменной таблицы в хранилище сервера
type StoredRecord struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Table       string    `json:"table"`
	Data        []byte    `json:"data"`
}
