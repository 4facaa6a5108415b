package services

import "errors"

var (
	// ErrNotLoggedIn is returned by task calls made without a session.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired is returned when the server rejected the held
	// token. The session and its cache are already discarded.
	ErrSessionExpired = errors.New("session expired, please log in again")
)
