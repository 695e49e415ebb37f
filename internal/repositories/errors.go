package repositories

import "errors"

// Sentinel errors returned by the repositories. Callers match with errors.Is
// and map them to transport status codes.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)
