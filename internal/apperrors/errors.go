package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")

	// Signup form rules, checked in this order
	ErrCredentialsWhitespace = errors.New("username or password contains whitespace")
	ErrUsernameTooShort      = errors.New("username is too short")
	ErrUsernameTooLong       = errors.New("username is too long")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrPasswordMismatch      = errors.New("password confirmation does not match")

	// Invalid UTF-8 or NUL bytes in any form field
	ErrInvalidText = errors.New("text contains invalid characters")

	ErrPostNotFound   = errors.New("post not found")
	ErrPostIncomplete = errors.New("post requires both title and body")
)
