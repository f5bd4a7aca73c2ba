package repositories

import "errors"

// ErrNotFound is returned by all repositories when a record does not
// exist. Implementations wrap it so callers can match with errors.Is.
var ErrNotFound = errors.New("record not found")
