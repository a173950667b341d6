package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Параметры Argon2id
const (
	Argon2Time    = 1
	Argon2Memory  = 64 * 1024 // KB
	Argon2Threads = 4
	Argon2KeyLen  = 32
	SaltSize      = 32
)

// GenerateSaltBase64 генерирует случайную соль и возвращает ее в Base64
func GenerateSaltBase64() (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// DeriveAuthKey выводит ключ аутентификации из пароля, username и публичной соли.
// Пароль никогда не покидает клиент, на сервер уходит только хеш этого ключа.
func DeriveAuthKey(password, username, saltBase64 string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	salt, err := base64.StdEncoding.DecodeString(saltBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	input := []byte(password + username + "auth")
	return argon2.IDKey(input, salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen), nil
}
