package repository

import "errors"

// ErrNotFound reports that a queried row does not exist. The postgres
// implementations wrap it so callers can tell absence from a backend
// failure with errors.Is.
var ErrNotFound = errors.New("not found")
