package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this username already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrTokenNotFound indicates that refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrWorkspaceNotFound indicates that workspace was not found
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrWorkspaceExists indicates that workspace with this id already exists
	ErrWorkspaceExists = errors.New("workspace already exists")

	// ErrNotMember indicates that user is not a member of the workspace
	ErrNotMember = errors.New("user is not a member of the workspace")

	// ErrRecordNotFound indicates that record was not found in the workspace
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates that record with this id already exists
	ErrRecordExists = errors.New("record already exists")
)
