package usecase

import "errors"

var (
	// ErrPostNotFound is returned when a post cannot be found by ID,
	// including the case where it was deleted by a concurrent request.
	ErrPostNotFound = errors.New("post not found")

	// ErrNotSignedIn is returned when an anonymous session attempts a
	// mutating operation.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrNotPostOwner is returned when a signed-in user attempts to delete
	// a post owned by someone else.
	ErrNotPostOwner = errors.New("not the post owner")
)
