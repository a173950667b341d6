package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session exists (user is signed out)
	ErrSessionNotFound = errors.New("session not found")

	// ErrMutationNotFound indicates that mutation record was not found
	ErrMutationNotFound = errors.New("mutation not found")

	// ErrMutationNotPending indicates an attempt to change a terminal mutation
	ErrMutationNotPending = errors.New("mutation is not pending")

	// ErrRecordNotFound indicates that domain record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates that domain record with the same id already exists
	ErrRecordExists = errors.New("record already exists")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
