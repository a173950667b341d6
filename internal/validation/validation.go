package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Ограничения на учетные данные и имена
const (
	MinUsernameLen      = 3
	MaxUsernameLen      = 32
	MinPasswordLen      = 8
	MaxWorkspaceNameLen = 64
)

// usernamePattern: латинские буквы, цифры, подчеркивание и точка
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)

// ValidateUsername проверяет формат username
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("username cannot be empty")
	case len(username) < MinUsernameLen:
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	case len(username) > MaxUsernameLen:
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	case !usernamePattern.MatchString(username):
		return fmt.Errorf("username can only contain letters, digits, '_' and '.'")
	}
	return nil
}

// ValidatePassword проверяет минимальную длину пароля
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}

// ValidateRecordID проверяет, что идентификатор записи - UUID
func ValidateRecordID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("id %q is not a valid UUID", id)
	}
	return nil
}

// ValidateWorkspaceName проверяет имя рабочего пространства
func ValidateWorkspaceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("workspace name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxWorkspaceNameLen {
		return fmt.Errorf("workspace name must not exceed %d characters", MaxWorkspaceNameLen)
	}
	return nil
}
