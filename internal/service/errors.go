package service

import "errors"

var (
	// ErrFieldsMissing means a required input field or file was absent or empty.
	ErrFieldsMissing = errors.New("fields missing")
	// ErrNotFound means no project has the requested id.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidCredentials means the username/password pair was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken means the submitted token does not match.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotDelivered means the relay accepted the message for no recipient.
	ErrNotDelivered = errors.New("message accepted for no recipient")
)
