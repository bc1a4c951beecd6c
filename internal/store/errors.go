package store

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no item.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned when an operation is conditioned on a
	// user item existing and it does not.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateID is returned when a put-if-absent write loses to an
	// existing item with the same key.
	ErrDuplicateID = errors.New("id already exists")
)
